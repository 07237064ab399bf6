// api/cache/redis_store.go

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	taskhive_errors "github.com/taskhive/taskhive/api/errors"
)

// RedisStore backs the cache layer with a shared Redis instance. Per-key
// set/get/delete atomicity is the only concurrency guarantee relied on.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", taskhive_errors.ErrKeyNotFound
	} else if err != nil {
		return "", fmt.Errorf("failed to get key from redis: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key from redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate keys in redis: %w", err)
	}
	return keys, nil
}
