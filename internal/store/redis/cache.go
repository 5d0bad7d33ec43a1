package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a query-shape keyed cache with a fixed TTL. It is owned by the
// server instance rather than process-global, so tests can isolate state by
// constructing their own instance against a throwaway redis.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached payload for the key, or ok=false on a miss.
// Transport errors are reported so callers can decide to fall through.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis.Cache.Get: %w", err)
	}
	return val, true, nil
}

// Set stores the payload under the key with the cache's TTL.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis.Cache.Set: %w", err)
	}
	return nil
}

// Invalidate drops every key under the cache's prefix. Uses SCAN rather
// than KEYS to stay friendly to a shared redis.
func (c *Cache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis.Cache.Invalidate: del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis.Cache.Invalidate: scan: %w", err)
	}
	return nil
}
