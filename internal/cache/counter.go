package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is a shared fixed-window counter.
type Counter interface {
	// Incr bumps key and returns the count within the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCounter(client redis.UniversalClient, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix}
}

// Incr runs INCR and EXPIRE NX in one transaction, so a key never outlives
// its window even if an earlier expire was lost.
func (r *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := r.prefix + ":" + key
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", key, err)
	}
	return incr.Val(), nil
}
