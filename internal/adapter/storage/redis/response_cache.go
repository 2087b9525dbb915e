package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ResponseCache implements ports.ResponseCache. Each scope has a generation
// counter that is part of every entry key; Invalidate bumps it so stale
// entries are never read again and age out through their TTL.
type ResponseCache struct {
	client goredis.Cmdable
	prefix string
}

// NewResponseCache creates a new Redis-backed response cache.
func NewResponseCache(client goredis.Cmdable) *ResponseCache {
	return &ResponseCache{client: client, prefix: "respcache:"}
}

func (c *ResponseCache) generationKey(scope string) string {
	return c.prefix + scope + ":gen"
}

func (c *ResponseCache) entryKey(scope string, generation int64, key string) string {
	return fmt.Sprintf("%s%s:%d:%s", c.prefix, scope, generation, key)
}

// Get returns the cached body (nil on a miss) and the generation it was
// looked up in.
func (c *ResponseCache) Get(ctx context.Context, scope, key string) ([]byte, int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(scope)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return nil, 0, fmt.Errorf("redis response cache generation: %w", err)
	}

	val, err := c.client.Get(ctx, c.entryKey(scope, gen, key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, gen, nil
		}
		return nil, 0, fmt.Errorf("redis response cache get: %w", err)
	}
	return val, gen, nil
}

// Set stores body under generation. If scope was invalidated since, the
// entry lands in a dead generation and is never served.
func (c *ResponseCache) Set(ctx context.Context, scope string, generation int64, key string, body []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.entryKey(scope, generation, key), body, ttl).Err(); err != nil {
		return fmt.Errorf("redis response cache set: %w", err)
	}
	return nil
}

// Invalidate starts a new generation for scope.
func (c *ResponseCache) Invalidate(ctx context.Context, scope string) error {
	if err := c.client.Incr(ctx, c.generationKey(scope)).Err(); err != nil {
		return fmt.Errorf("redis response cache invalidate: %w", err)
	}
	return nil
}
