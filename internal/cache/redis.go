package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/pkg/metrics"
)

// redisCache implements QueryCache against a single Redis instance.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed query cache and verifies connectivity.
func NewRedis(cfg config.RedisConfig) (QueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisCache{client: client, ttl: cfg.TTL}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.RecordCacheOperation("get", "miss")
		return nil, ErrMiss
	}
	if err != nil {
		metrics.RecordCacheOperation("get", "error")
		return nil, err
	}
	metrics.RecordCacheOperation("get", "hit")
	return b, nil
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		metrics.RecordCacheOperation("set", "error")
		return err
	}
	metrics.RecordCacheOperation("set", "success")
	return nil
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordCacheOperation("delete", "error")
		return err
	}
	metrics.RecordCacheOperation("delete", "success")
	return nil
}
