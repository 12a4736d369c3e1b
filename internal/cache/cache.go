// Package cache wraps Redis for short-lived memoization of assessment
// results and the benchmark key rate. The engines themselves stay pure;
// a cache miss just falls through to recomputation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON layer over a Redis client.
type Cache struct {
	client *redis.Client
}

// New connects to Redis and verifies the connection.
func New(addr string) (*Cache, error) {
	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", addr))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: client}, nil
}

// GetJSON loads the value stored under key into v. The boolean reports
// whether the key was present.
func (c *Cache) GetJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v under key with a TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
