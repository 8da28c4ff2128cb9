// Package session holds resolution sessions between HTTP calls. One
// interactive resolve/review/commit flow lives entirely in one entry;
// entries expire after the configured TTL so abandoned reviews do not
// accumulate.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/recipecart/backend/internal/domain"
)

const cleanupInterval = 5 * time.Minute

type entry struct {
	session    *domain.ResolutionSession
	expiration time.Time
}

// Store is a thread-safe in-memory session repository with TTL expiry.
type Store struct {
	ttl   time.Duration
	data  map[string]entry
	mutex sync.RWMutex
}

// NewStore creates a session store. Each Save refreshes the entry's TTL.
func NewStore(ttl time.Duration) *Store {
	if ttl == 0 {
		ttl = 2 * time.Hour
	}
	s := &Store{
		ttl:  ttl,
		data: make(map[string]entry),
	}
	go s.cleanupExpired()
	return s
}

// Save stores or refreshes a session.
func (s *Store) Save(ctx context.Context, session *domain.ResolutionSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidRequest
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[session.ID] = entry{
		session:    session,
		expiration: time.Now().Add(s.ttl),
	}
	return nil
}

// Get returns a live session by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.ResolutionSession, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	e, exists := s.data[id]
	if !exists || time.Now().After(e.expiration) {
		return nil, domain.ErrSessionNotFound
	}
	return e.session, nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, id)
	return nil
}

// Size returns the number of stored sessions (for monitoring).
func (s *Store) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// cleanupExpired removes expired sessions periodically.
func (s *Store) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for id, e := range s.data {
			if now.After(e.expiration) {
				delete(s.data, id)
			}
		}
		s.mutex.Unlock()
	}
}
