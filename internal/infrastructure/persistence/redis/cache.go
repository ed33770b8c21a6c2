package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ahermangesh/floatchat/pkg/logger"
	"github.com/ahermangesh/floatchat/pkg/metrics"
)

// Cache is a read-through JSON cache. Concurrent misses on the same key
// collapse into a single loader call.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
}

// NewCache builds a cache over the given client.
func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetOrLoad returns the cached value for key, loading and storing it on
// a miss. Cache failures degrade to calling the loader directly.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			metrics.DashboardCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
	} else if err != redis.Nil {
		logger.Warn(ctx, "cache read failed", "error", err, "key", key)
	}
	metrics.DashboardCacheTotal.WithLabelValues("miss").Inc()

	v, err, _ := c.sf.Do(key, func() (any, error) {
		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if raw, marshalErr := json.Marshal(loaded); marshalErr == nil {
			if setErr := c.rdb.Set(ctx, key, raw, ttl).Err(); setErr != nil {
				logger.Warn(ctx, "cache write failed", "error", setErr, "key", key)
			}
		}
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Invalidate removes a cached key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
