// Package ratelimit implements a fixed-window request limiter on top of
// the TTL cache store.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/core"
)

const keyPrefix = "rate_limit:"

// Limiter counts requests per client identity in fixed windows. It fails
// open: when the backing store is unreachable, traffic is allowed.
type Limiter struct {
	store  cache.Store
	limit  int64
	window time.Duration
}

// New creates a Limiter allowing limit requests per window.
func New(store cache.Store, limit int64, window time.Duration) *Limiter {
	return &Limiter{store: store, limit: limit, window: window}
}

// TryAcquire increments the counter for identity and reports whether the
// request is within the limit. The increment is never rolled back: an
// over-limit counter keeps climbing until the window expires, so status
// queries can report how far over the client is.
func (l *Limiter) TryAcquire(ctx context.Context, identity string) bool {
	count, ok := l.store.Increment(ctx, keyPrefix+identity, l.window)
	if !ok {
		// Never block legitimate traffic on cache infrastructure failure.
		return true
	}
	if count > l.limit {
		slog.Warn("rate limit exceeded", "identity", identity, "count", count, "limit", l.limit)
		return false
	}
	return true
}

// Status returns the client's position within the current window. When the
// backing store is unreachable it reports a synthetic not-limited result.
func (l *Limiter) Status(ctx context.Context, identity string) core.RateLimitStatus {
	count, ttl, ok := l.store.GetCounter(ctx, keyPrefix+identity)
	if !ok {
		return core.RateLimitStatus{
			Allowed:   true,
			Limit:     l.limit,
			Remaining: l.limit,
			ResetsIn:  int64(l.window.Seconds()),
		}
	}

	resetsIn := int64(ttl.Seconds())
	if resetsIn <= 0 {
		resetsIn = int64(l.window.Seconds())
	}

	return core.RateLimitStatus{
		Allowed:   count <= l.limit,
		Current:   count,
		Limit:     l.limit,
		Remaining: maxInt64(0, l.limit-count),
		ResetsIn:  resetsIn,
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
