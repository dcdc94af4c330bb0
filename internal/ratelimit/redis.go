package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "ecodeli:ratelimit:"

var allowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter is a fixed-window counter shared by every API instance.
type RedisLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter builds a limiter allowing limit attempts per window.
func NewRedisLimiter(client redis.UniversalClient, limit int, window time.Duration, now func() time.Time) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if now == nil {
		now = time.Now
	}
	if window <= 0 {
		window = time.Second
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: defaultKeyPrefix,
		now:    now,
	}, nil
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	if r.limit <= 0 {
		return Decision{Allowed: true, Limit: r.limit, Remaining: r.limit}, nil
	}

	result, err := allowScript.Run(ctx, r.client, []string{r.prefix + key}, r.window.Milliseconds()).Result()
	if err != nil {
		return Decision{}, err
	}
	values, ok := result.([]any)
	if !ok || len(values) < 2 {
		return Decision{}, errors.New("unexpected redis rate limit response")
	}
	current, ok := values[0].(int64)
	if !ok {
		return Decision{}, errors.New("invalid redis counter response")
	}
	ttlMillis, _ := values[1].(int64)

	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	remaining := r.limit - int(current)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   current <= int64(r.limit),
		Limit:     r.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
