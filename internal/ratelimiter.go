package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

type RateLimiter struct {
	client  redisCounter
	closer  func() error
	prefix  string
	enabled bool
	logger  *Logger
}

type RateLimit struct {
	requests int
	window   time.Duration
}

// Fixed windows per client, checked in order.
var pageRateLimits = []RateLimit{
	{requests: 20, window: 1 * time.Second},
	{requests: 300, window: 1 * time.Minute},
}

func NewRateLimiter(cfg *Config, logger *Logger) *RateLimiter {
	if !cfg.RateLimitEnabled {
		return &RateLimiter{enabled: false, logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	return &RateLimiter{
		client:  client,
		closer:  client.Close,
		prefix:  cfg.RateLimitRedisPrefix,
		enabled: true,
		logger:  logger,
	}
}

func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.enabled {
		return true, nil
	}

	for _, limit := range pageRateLimits {
		allowed, err := rl.checkLimit(ctx, key, limit)
		if err != nil {
			rl.logger.Error("rate_limit_check_failed").
				Component("rate_limiter").
				Operation("check_limit").
				Err(err).
				Meta("key", key).
				Log()
			return false, err
		}
		if !allowed {
			rl.logger.Debug("rate_limit_blocked").
				Component("rate_limiter").
				Operation("check_limit").
				Meta("key", key).
				Meta("limit_requests", limit.requests).
				Meta("limit_window", limit.window.String()).
				Log()
			return false, nil
		}
	}
	return true, nil
}

func (rl *RateLimiter) checkLimit(ctx context.Context, key string, limit RateLimit) (bool, error) {
	redisKey := fmt.Sprintf("%s:%s:%d", rl.prefix, key, int(limit.window.Seconds()))

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := rl.client.Expire(ctx, redisKey, limit.window).Err(); err != nil {
			return false, err
		}
	}

	return int(count) <= limit.requests, nil
}

func (rl *RateLimiter) Close() error {
	if rl.closer == nil {
		return nil
	}
	return rl.closer()
}
