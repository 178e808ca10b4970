package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyRestaurantPage holds the rendered public page: restaurant_page:{username}
const KeyRestaurantPage = "restaurant_page:%s"

var ErrMiss = errors.New("cache miss")

// PageCache stores the serialized public restaurant page per tenant.
type PageCache interface {
	Get(ctx context.Context, restaurant string) ([]byte, error)
	Set(ctx context.Context, restaurant string, page []byte) error
	Invalidate(ctx context.Context, restaurant string) error
}

type RedisPageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisPageCache(rdb *redis.Client, ttl time.Duration) *RedisPageCache {
	return &RedisPageCache{rdb: rdb, ttl: ttl}
}

func pageKey(restaurant string) string {
	return fmt.Sprintf(KeyRestaurantPage, restaurant)
}

func (c *RedisPageCache) Get(ctx context.Context, restaurant string) ([]byte, error) {
	b, err := c.rdb.Get(ctx, pageKey(restaurant)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return b, err
}

func (c *RedisPageCache) Set(ctx context.Context, restaurant string, page []byte) error {
	return c.rdb.Set(ctx, pageKey(restaurant), page, c.ttl).Err()
}

func (c *RedisPageCache) Invalidate(ctx context.Context, restaurant string) error {
	return c.rdb.Del(ctx, pageKey(restaurant)).Err()
}

// NopCache never hits. Used when REDIS_ADDR is empty.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }
func (NopCache) Set(context.Context, string, []byte) error   { return nil }
func (NopCache) Invalidate(context.Context, string) error    { return nil }
