// Package cache provides a TTL key/value store backing the content cache
// and the rate limiter. Supports a Redis backend and a null backend for
// running without cache infrastructure.
package cache

import (
	"context"
	"time"

	"wikiquiz/internal/core"
)

// Store is the TTL cache contract. The cache is an optimization, not a
// correctness dependency: when the backing store is unreachable every
// operation degrades to a no-op and reads report absent. Implementations
// must be safe for concurrent use.
type Store interface {
	// Put stores value under key for ttl, replacing any prior entry.
	// Reports whether the write was accepted by the backend.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Get returns the value for key. Missing, expired and
	// backend-unreachable all report absent; callers cannot distinguish.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Delete removes all keys matching pattern (glob syntax) and returns
	// the number removed.
	Delete(ctx context.Context, pattern string) int

	// Increment atomically increments the counter at key. The first
	// increment of a counter sets its expiry to window. ok is false when
	// the backend is unreachable, letting callers fail open.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ok bool)

	// GetCounter returns the current counter value and its remaining TTL.
	// ok is false for missing counters or an unreachable backend.
	GetCounter(ctx context.Context, key string) (count int64, ttl time.Duration, ok bool)

	// Stats reports connectivity, entry count and hit rate.
	Stats(ctx context.Context) core.CacheStats

	// Close releases resources held by the store.
	Close() error
}
