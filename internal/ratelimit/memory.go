package ratelimit

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const defaultMaxKeys = 10000

// MemoryLimiter keeps one token bucket per key in process memory. A bucket
// holds limit tokens and refills one token every window/limit.
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    int
	every    rate.Limit
	maxKeys  int
	now      func() time.Time
}

// NewMemoryLimiter builds an in-process limiter. now may be nil.
func NewMemoryLimiter(limit int, window time.Duration, now func() time.Time) *MemoryLimiter {
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = time.Second
	}
	every := rate.Inf
	if limit > 0 {
		every = rate.Every(window / time.Duration(limit))
	}
	return &MemoryLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		every:    every,
		maxKeys:  defaultMaxKeys,
		now:      now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	if m.limit <= 0 {
		return Decision{Allowed: true, Limit: m.limit, Remaining: m.limit}, nil
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.limiters[key]
	if !ok {
		if len(m.limiters) >= m.maxKeys {
			m.gc(now)
		}
		if len(m.limiters) >= m.maxKeys {
			return Decision{}, errors.New("rate limiter capacity exceeded")
		}
		limiter = rate.NewLimiter(m.every, m.limit)
		m.limiters[key] = limiter
	}

	allowed := limiter.AllowN(now, 1)
	tokens := limiter.TokensAt(now)

	decision := Decision{
		Allowed:   allowed,
		Limit:     m.limit,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		ResetAt:   now,
	}
	if tokens < 1 {
		missing := 1 - tokens
		decision.ResetAt = now.Add(time.Duration(missing / float64(m.every) * float64(time.Second)))
	}
	return decision, nil
}

func (m *MemoryLimiter) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.limiters, key)
	m.mu.Unlock()
	return nil
}

// gc drops buckets that have refilled completely.
func (m *MemoryLimiter) gc(now time.Time) {
	for key, limiter := range m.limiters {
		if limiter.TokensAt(now) >= float64(m.limit) {
			delete(m.limiters, key)
		}
	}
}
