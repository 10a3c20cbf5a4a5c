package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mbressan/identity-service/internal/domain"
)

// Cache implements the account.Cache port. A missing key is a normal
// outcome, never an error; only backend failures surface, and they do so
// as cache_unavailable so callers know to degrade.
type Cache struct {
	rdb *goredis.Client
}

func NewCache(c *Client) *Cache {
	var rdb *goredis.Client
	if c != nil {
		rdb = c.rdb
	}
	return &Cache{rdb: rdb}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.rdb == nil {
		return "", false, domain.ErrCacheUnavailable(errors.New("redis cache not configured"))
	}

	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", false, nil
		}
		return "", false, domain.ErrCacheUnavailable(err)
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.rdb == nil {
		return domain.ErrCacheUnavailable(errors.New("redis cache not configured"))
	}
	if ttl < 0 {
		ttl = 0 // no expiry
	}
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return domain.ErrCacheUnavailable(err)
	}
	return nil
}
