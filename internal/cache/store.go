package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss indicates the requested key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// Store is a JSON value cache on top of redis with per-key TTL.
type Store struct {
	client *redis.Client
	logger *zap.SugaredLogger
}

// NewStore creates a new cache store instance.
func NewStore(client *redis.Client, logger *zap.SugaredLogger) *Store {
	return &Store{client: client, logger: logger}
}

// Set serializes value to JSON and stores it under key with the given TTL.
func (s *Store) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Errorw("failed to marshal cache value", "key", key, "error", err)
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Errorw("failed to set cache value", "key", key, "error", err)
		return fmt.Errorf("failed to set cache value: %w", err)
	}
	return nil
}

// GetObject loads the JSON value stored under key into dest.
// Returns ErrCacheMiss when the key does not exist.
func (s *Store) GetObject(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		s.logger.Errorw("failed to get cache value", "key", key, "error", err)
		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Errorw("failed to unmarshal cache value", "key", key, "error", err)
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}

// Exists reports whether key is present in the cache.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Errorw("failed to check key existence", "key", key, "error", err)
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return n > 0, nil
}

// Delete removes key from the cache.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Errorw("failed to delete cache value", "key", key, "error", err)
		return fmt.Errorf("failed to delete cache value: %w", err)
	}
	return nil
}
