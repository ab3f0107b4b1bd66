package sources

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a per-source minimum-interval throttle. It is a
// single-slot limiter: across all callers sharing one instance, successive
// dispatches are spaced at least the configured interval apart, and idle
// time never accumulates into a burst allowance beyond one request. It is
// safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter that enforces minInterval between
// successive dispatches. A zero or negative interval yields a limiter that
// never suspends.
//
// Example configurations:
//   - PubMed without an API key: NewRateLimiter(340 * time.Millisecond)
//   - OpenAlex polite pool: NewRateLimiter(50 * time.Millisecond)
func NewRateLimiter(minInterval time.Duration) *RateLimiter {
	if minInterval <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	// Burst is fixed at 1: one slot refills every minInterval, which is
	// exactly the "never less than minInterval between dispatches"
	// politeness contract.
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until dispatch is permitted or the context is canceled.
// It returns an error only if the context is canceled or its deadline
// cannot accommodate the required delay.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a dispatch is permitted right now without waiting,
// consuming the slot if so.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
