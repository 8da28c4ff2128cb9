package domain

import (
	"context"
	"time"
)

// CatalogGateway defines the interface to the external product catalog
// search. The raw vendor shape is normalized before it gets here.
type CatalogGateway interface {
	SearchProducts(ctx context.Context, query string) ([]CatalogProduct, error)
}

// CartGateway defines the interface to the external cart service. Adds are
// additive: adding the same product twice increases its quantity.
type CartGateway interface {
	AddItem(ctx context.Context, productID string, count int) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionRepository holds resolution sessions between the resolve, review
// and commit HTTP calls.
type SessionRepository interface {
	Save(ctx context.Context, session *ResolutionSession) error
	Get(ctx context.Context, id string) (*ResolutionSession, error)
	Delete(ctx context.Context, id string) error
}
