package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis cache backend.
type RedisOptions struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration
}

// redisCache implements Cache backed by a Redis server.
type redisCache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
}

// NewRedisCache connects to Redis and returns a Cache. The connection
// is verified with a ping before the cache is handed out.
func NewRedisCache(ctx context.Context, opts RedisOptions) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}

	return &redisCache{
		client:     client,
		keyPrefix:  opts.KeyPrefix,
		defaultTTL: ttl,
	}, nil
}

// Get implements Cache.
func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	m := getCacheMetrics()

	value, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			m.misses.WithLabelValues(backendRedis).Inc()
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	m.hits.WithLabelValues(backendRedis).Inc()
	return value, nil
}

// Set implements Cache.
func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	getCacheMetrics().sets.WithLabelValues(backendRedis).Inc()
	return nil
}

// Delete implements Cache.
func (c *redisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close implements Cache.
func (c *redisCache) Close() error {
	return c.client.Close()
}
