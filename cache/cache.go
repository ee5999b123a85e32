// Package cache provides the response-cache backends used by the
// caching middleware.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the storage contract for cached responses. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A non-positive ttl uses the
	// backend's default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
