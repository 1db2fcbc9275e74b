package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 5 * time.Minute

// CourseCache caches rendered course listings in Redis.
//
// Keys embed a generation counter; Invalidate bumps the counter so every
// previously cached listing becomes unreachable and expires on its own.
type CourseCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, prefix string, ttl time.Duration) *CourseCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "coursehub"
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &CourseCache{client: client, prefix: prefix, ttl: ttl}
}

// Get decodes the cached value for name into dst. It reports false on a miss.
func (c *CourseCache) Get(ctx context.Context, name string, dst any) (bool, error) {
	key, err := c.key(ctx, name)
	if err != nil {
		return false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Unreadable entries are treated as misses and overwritten.
		return false, nil
	}
	return true, nil
}

func (c *CourseCache) Set(ctx context.Context, name string, v any) error {
	key, err := c.key(ctx, name)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing.
func (c *CourseCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *CourseCache) key(ctx context.Context, name string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		gen = "0"
	} else if err != nil {
		return "", fmt.Errorf("cache generation: %w", err)
	}
	return c.prefix + ":courses:" + gen + ":" + name, nil
}

func (c *CourseCache) generationKey() string {
	return c.prefix + ":courses:gen"
}
