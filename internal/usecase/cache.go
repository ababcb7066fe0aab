package usecase

import (
	"context"
	"time"
)

// Cache is the slice of the cache the usecases need. Implementations are
// expected to degrade to a no-op when the backing store is unavailable;
// SetIfNotExists reports true in that case so submission is never blocked by
// a cache outage.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}
