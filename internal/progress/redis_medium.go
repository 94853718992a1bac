package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMedium stores unlock records as plain Redis strings without expiry.
type RedisMedium struct {
	rdb *redis.Client
}

// NewRedisMedium wraps an existing client.
func NewRedisMedium(rdb *redis.Client) *RedisMedium {
	return &RedisMedium{rdb: rdb}
}

func (m *RedisMedium) Read(ctx context.Context, key string) (string, bool, error) {
	v, err := m.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (m *RedisMedium) Write(ctx context.Context, key, value string) error {
	if err := m.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
