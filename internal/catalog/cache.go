package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"time"
)

// Cache is a read-through Redis cache in front of a Reader.
// Cache errors never fail a read; they fall through to the backing store.
type Cache struct {
	Next  Reader
	Redis *redis.Client
	TTL   time.Duration
	Log   *zap.Logger
}

func (c *Cache) ListProducts(ctx context.Context) ([]Product, error) {
	return readThrough(ctx, c, redisx.KeyCatalogProducts, c.Next.ListProducts)
}

func (c *Cache) ListCategories(ctx context.Context) ([]Category, error) {
	return readThrough(ctx, c, redisx.KeyCatalogCategories, c.Next.ListCategories)
}

// Invalidate drops the cached listings so the next read hits the store.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.Redis.Del(ctx, redisx.KeyCatalogProducts, redisx.KeyCatalogCategories).Err()
}

func readThrough[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if s, err := c.Redis.Get(ctx, key).Result(); err == nil {
		var out []T
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out, nil
		}
		c.Log.Warn("discarding unreadable catalog cache entry", zap.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.Log.Warn("catalog cache get", zap.String("key", key), zap.Error(err))
	}

	out, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	b, err := json.Marshal(out)
	if err == nil {
		ttl := c.TTL
		if ttl <= 0 {
			ttl = redisx.TTLCatalog
		}
		if err := c.Redis.Set(ctx, key, b, ttl).Err(); err != nil {
			c.Log.Warn("catalog cache set", zap.String("key", key), zap.Error(err))
		}
	}
	return out, nil
}
