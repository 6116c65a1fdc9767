package cache

import (
	"context"
	"time"
)

// Cache is the small key-value surface the services need: read-through
// population with a TTL and synchronous invalidation on writes.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value with an expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes the given keys. Missing keys are not an error.
	Del(ctx context.Context, keys ...string) error
}
