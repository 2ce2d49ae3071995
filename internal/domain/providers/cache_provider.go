package providers

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache; a missing key yields ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// GetMany retrieves several values at once; missing keys are absent from the result
	GetMany(ctx context.Context, keys []string) (map[string][]byte, error)

	// Keys lists every key matching a glob pattern
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Set stores a value in cache with expiration (0 means no expiration)
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
