package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/firstcredit-backend/pkg/redis"
)

type redisBlobClient interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	SnapshotKey(accountKey string) string
}

// RedisStore keeps each snapshot as a single redis string without expiry.
type RedisStore struct {
	client redisBlobClient
}

func NewRedisStore(client redisBlobClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.GetBytes(ctx, s.client.SnapshotKey(key))
	if redis.IsNil(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}
	return data, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.client.SnapshotKey(key), payload, 0); err != nil {
		return fmt.Errorf("redis put snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.client.SnapshotKey(key))
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
