package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/gobudget/internal/domain"
)

// DefaultPrefix namespaces every key this package writes.
const DefaultPrefix = "gobudget:"

// KeyValueStore implements usecase.KeyValueStore using Redis strings. A
// whole list is one SET, so readers never see a partial write.
type KeyValueStore struct {
	client *redis.Client
	prefix string
}

// NewKeyValueStore creates a new KeyValueStore.
func NewKeyValueStore(client *redis.Client) *KeyValueStore {
	return &KeyValueStore{
		client: client,
		prefix: DefaultPrefix,
	}
}

// Get retrieves a value by key.
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value without expiry.
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *KeyValueStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
