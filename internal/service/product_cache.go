package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"store-service/internal/entity"
)

// ProductCache is a read-through cache for product detail lookups. A nil
// implementation result means miss, never an error.
type ProductCache interface {
	Get(ctx context.Context, id int) (*entity.Product, error)
	Set(ctx context.Context, product *entity.Product) error
	Invalidate(ctx context.Context, ids ...int) error
}

// RedisProductCache caches product rows as JSON under product:<id>.
type RedisProductCache struct {
	rdb *redis.Client
}

func NewRedisProductCache(rdb *redis.Client) *RedisProductCache {
	return &RedisProductCache{rdb: rdb}
}

func cacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id int) (*entity.Product, error) {
	val, err := c.rdb.Get(ctx, cacheKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var product entity.Product
	if err := json.Unmarshal([]byte(val), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *RedisProductCache) Set(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(product.ID), data, 0).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
