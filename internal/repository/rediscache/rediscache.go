// Package rediscache keeps hot cart counters in redis. SQLite stays
// authoritative; every method on a nil cache is a no-op miss, so the server
// runs unchanged when no redis URL is configured.
package rediscache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const countTTL = 5 * time.Minute

type CartCountCache struct {
	rdb *redis.Client
}

// New parses redisURL and verifies connectivity.
func New(ctx context.Context, redisURL string) (*CartCountCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &CartCountCache{rdb: client}, nil
}

func (c *CartCountCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func key(userID int64) string {
	return "cart:count:" + strconv.FormatInt(userID, 10)
}

// Get returns the cached count and whether the key was present.
func (c *CartCountCache) Get(ctx context.Context, userID int64) (int64, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}

	n, err := c.rdb.Get(ctx, key(userID)).Int64()
	if err != nil {
		return 0, false
	}

	return n, true
}

func (c *CartCountCache) Set(ctx context.Context, userID, count int64) {
	if c == nil || c.rdb == nil {
		return
	}

	// best effort: a lost write just means the next read falls through to sqlite
	_ = c.rdb.Set(ctx, key(userID), count, countTTL).Err()
}

func (c *CartCountCache) Invalidate(ctx context.Context, userID int64) {
	if c == nil || c.rdb == nil {
		return
	}

	_ = c.rdb.Del(ctx, key(userID)).Err()
}
