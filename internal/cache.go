package internal

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CacheManager is a read-through cache in front of the stats source. It is
// never the system of record: a miss or an error just means "go upstream".
type CacheManager struct {
	client  redisCommands
	closer  func() error
	enabled bool
}

func NewCacheManager(cfg *Config) *CacheManager {
	if !cfg.CacheEnabled {
		return &CacheManager{enabled: false}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 1,
		PoolTimeout:  30 * time.Second,
	})

	return &CacheManager{
		client:  client,
		closer:  client.Close,
		enabled: true,
	}
}

func (cm *CacheManager) Enabled() bool {
	return cm.enabled
}

func (cm *CacheManager) Key(parts ...string) string {
	return "soloq:" + strings.Join(parts, ":")
}

func (cm *CacheManager) GetRaw(ctx context.Context, key string) ([]byte, error) {
	if !cm.enabled {
		return nil, redis.Nil
	}
	return cm.client.Get(ctx, key).Bytes()
}

func (cm *CacheManager) SetRaw(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if !cm.enabled {
		return nil
	}
	// Stored as a string so the value round-trips through any redis client.
	return cm.client.Set(ctx, key, string(data), ttl).Err()
}

func (cm *CacheManager) Close() error {
	if cm.closer == nil {
		return nil
	}
	return cm.closer()
}
