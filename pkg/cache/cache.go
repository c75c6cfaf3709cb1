// Package cache stores rendered artifacts keyed by input content and build
// options.
//
// Three backends share the [Cache] interface:
//   - [FileCache] keeps entries on disk for CLI usage
//   - [RedisCache] shares entries between viewer server replicas
//   - [NullCache] disables caching
//
// Keys are produced by a [Keyer] so that every component derives them the
// same way.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the lifetime of an artifact when the caller does not set one.
const DefaultTTL = 24 * time.Hour

// Cache is a byte-oriented key-value store with optional expiry.
//
// Get reports a miss with (nil, false, nil). Errors are reserved for
// backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
