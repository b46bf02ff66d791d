package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the read-side cache for persisted orders. Consumers define this
// interface, not the Redis implementation.
type Cache interface {
	Get(ctx context.Context, id string) (*Order, error)
	Set(ctx context.Context, id string, o *Order) error
	Delete(ctx context.Context, id string) error
}

var ErrCacheMiss = errors.New("cache miss")

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r *RedisCache) Get(ctx context.Context, id string) (*Order, error) {
	data, err := r.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var o Order
	if e2 := json.Unmarshal(data, &o); e2 != nil {
		return nil, fmt.Errorf("unmarshal order failed: %w", e2)
	}
	return &o, nil
}

func (r *RedisCache) Set(ctx context.Context, id string, o *Order) error {
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if e2 := r.client.Set(ctx, cacheKey(id), data, r.baseTTL+jitter).Err(); e2 != nil {
		return fmt.Errorf("redis set failed: %w", e2)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("ordercache:%s", id)
}
