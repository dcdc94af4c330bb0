package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ecodeli/ecodeli-api/internal/config"
)

const redisDialTimeout = 2 * time.Second

// Redis wraps the go-redis client used for login throttling.
type Redis struct {
	Client    *redis.Client
	reachable bool
}

// NewRedis connects to Redis. An unreachable server is logged, not fatal:
// callers check Reachable and fall back to in-process state.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisDialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()

	r := &Redis{Client: client}
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		r.reachable = true
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}
	return r
}

// Reachable reports whether the startup ping succeeded.
func (r *Redis) Reachable() bool {
	return r != nil && r.reachable
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
