// Package cache keeps recently read events in Redis, keyed by slug.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/event-listing/internal/model"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "eventlisting:event:"

// Key returns the Redis key for an event slug.
func Key(slug string) string {
	return keyPrefix + slug
}

// RedisEventCache is a read-through cache of events by slug.
type RedisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEventCache connects to the Redis server at url
// (redis://[:password@]host:port/db) and verifies it with a ping.
func NewRedisEventCache(ctx context.Context, url string, ttl time.Duration) (*RedisEventCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisEventCache{client: client, ttl: ttl}, nil
}

// Get returns the cached event for slug. A miss is (nil, false, nil).
func (c *RedisEventCache) Get(ctx context.Context, slug string) (*model.Event, bool, error) {
	raw, err := c.client.Get(ctx, Key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var e model.Event
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("decode cached event: %w", err)
	}
	return &e, true, nil
}

// Set stores e under its slug for the configured TTL.
func (c *RedisEventCache) Set(ctx context.Context, e *model.Event) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := c.client.Set(ctx, Key(e.Slug), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate drops the cached entries for slugs.
func (c *RedisEventCache) Invalidate(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, len(slugs))
	for i, s := range slugs {
		keys[i] = Key(s)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *RedisEventCache) Close() error {
	return c.client.Close()
}

// Nop is an event cache that never stores anything.
type Nop struct{}

// Get always reports a miss.
func (Nop) Get(context.Context, string) (*model.Event, bool, error) { return nil, false, nil }

// Set discards the event.
func (Nop) Set(context.Context, *model.Event) error { return nil }

// Invalidate does nothing.
func (Nop) Invalidate(context.Context, ...string) error { return nil }
