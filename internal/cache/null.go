package cache

import (
	"context"
	"time"

	"wikiquiz/internal/core"
)

// NullStore implements Store with no backing storage. Every read misses,
// every write is dropped, and counters fail open. Selected at construction
// when no cache infrastructure is configured, so callers never need
// nil checks.
type NullStore struct{}

// NewNullStore creates a no-op store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

func (*NullStore) Put(context.Context, string, []byte, time.Duration) bool {
	return false
}

func (*NullStore) Get(context.Context, string) ([]byte, bool) {
	return nil, false
}

func (*NullStore) Delete(context.Context, string) int {
	return 0
}

func (*NullStore) Increment(context.Context, string, time.Duration) (int64, bool) {
	return 0, false
}

func (*NullStore) GetCounter(context.Context, string) (int64, time.Duration, bool) {
	return 0, 0, false
}

func (*NullStore) Stats(context.Context) core.CacheStats {
	return core.CacheStats{HitRate: 0}
}

func (*NullStore) Close() error {
	return nil
}
