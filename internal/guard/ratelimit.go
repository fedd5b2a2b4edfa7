package guard

import (
	"context"
	"sync"
	"time"
)

// Result reports the outcome of a rate-limit check.
type Result struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RateLimiter implements a sliding window rate limiter keyed by an
// arbitrary string (the HTTP layer uses the client address).
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a rate limiter with the given limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
}

// Check records one request for key and reports whether it is within the
// limit. When the limit is exceeded, RetryAfter is the time until the
// oldest request in the window expires.
func (rl *RateLimiter) Check(_ context.Context, key string) Result {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	// Remove expired entries
	entries := rl.windows[key]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.windows[key] = valid
		return Result{
			Allowed:    false,
			RetryAfter: valid[0].Sub(cutoff),
		}
	}

	rl.windows[key] = append(valid, now)
	return Result{Allowed: true}
}
