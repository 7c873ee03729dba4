package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
}

type redisCache struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// NewRedisCache stores JSON encoded values under prefix-qualified keys.
func NewRedisCache(client redis.UniversalClient, prefix string, logger *slog.Logger) CacheService {
	return &redisCache{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *redisCache) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	payload, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		r.logger.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		_ = r.client.Del(ctx, r.key(key)).Err()
		return ErrCacheMiss
	}
	return nil
}
