// Package settings persists user-facing toggles. Writes are optimistic:
// the in-memory state is already applied by the time a write happens, so
// failures are logged and never retried.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Well-known setting keys.
const (
	KeyEnabled   = "observability.enabled"
	KeyRetention = "observability.retention"
)

// Store persists settings key/value pairs.
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
}

const settingKeyFmt = "graphiti:settings:%s"

// RedisStore implements Store on a Redis instance.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a settings store on the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, settingKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist setting %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, settingKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return value, nil
}

func settingKey(key string) string {
	return fmt.Sprintf(settingKeyFmt, key)
}
