// Package ratelimit throttles repeated attempts per key inside a fixed window.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before retrying.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.Allowed || d.ResetAt.IsZero() || !d.ResetAt.After(now) {
		return 0
	}
	return d.ResetAt.Sub(now)
}

// Limiter counts attempts per key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
	Reset(ctx context.Context, key string) error
}
