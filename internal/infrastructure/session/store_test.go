package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipecart/backend/internal/domain"
)

func newSession(id string) *domain.ResolutionSession {
	return &domain.ResolutionSession{
		ID:        id,
		State:     domain.StateReview,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("save and get", func(t *testing.T) {
		s := NewStore(time.Minute)
		require.NoError(t, s.Save(ctx, newSession("s1")))

		got, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "s1", got.ID)
		assert.Equal(t, domain.StateReview, got.State)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewStore(time.Minute)
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("nil or unidentified session rejected", func(t *testing.T) {
		s := NewStore(time.Minute)
		assert.ErrorIs(t, s.Save(ctx, nil), domain.ErrInvalidRequest)
		assert.ErrorIs(t, s.Save(ctx, &domain.ResolutionSession{}), domain.ErrInvalidRequest)
	})

	t.Run("expired session is gone", func(t *testing.T) {
		s := NewStore(10 * time.Millisecond)
		require.NoError(t, s.Save(ctx, newSession("s1")))

		time.Sleep(30 * time.Millisecond)
		_, err := s.Get(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("save refreshes ttl", func(t *testing.T) {
		s := NewStore(50 * time.Millisecond)
		session := newSession("s1")
		require.NoError(t, s.Save(ctx, session))

		time.Sleep(30 * time.Millisecond)
		require.NoError(t, s.Save(ctx, session))
		time.Sleep(30 * time.Millisecond)

		_, err := s.Get(ctx, "s1")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		s := NewStore(time.Minute)
		require.NoError(t, s.Save(ctx, newSession("s1")))
		require.NoError(t, s.Delete(ctx, "s1"))

		_, err := s.Get(ctx, "s1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("size", func(t *testing.T) {
		s := NewStore(time.Minute)
		assert.Equal(t, 0, s.Size())
		require.NoError(t, s.Save(ctx, newSession("a")))
		require.NoError(t, s.Save(ctx, newSession("b")))
		assert.Equal(t, 2, s.Size())
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		s := NewStore(0)
		assert.Equal(t, 2*time.Hour, s.ttl)
	})
}
