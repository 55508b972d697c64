// Package cache provides redis-backed caching and named distributed locks.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	appConfig "github.com/jwwei/user-center/internal/config"
	"github.com/jwwei/user-center/pkg/retry"
)

// NewClient creates a redis client from configuration and verifies
// connectivity, retrying while redis comes up.
func NewClient(ctx context.Context, cfg appConfig.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// HealthCheck verifies redis connection availability.
func HealthCheck(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
