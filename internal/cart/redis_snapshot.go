package cart

import (
	"context"
	"errors"

	pkgredis "github.com/simpleshop/storefront-core/pkg/redis"
)

// RedisSnapshotStore keeps the cart snapshot in Redis so the storefront core
// can run without a writable filesystem. Keys have no TTL; the snapshot lives
// until overwritten or cleared.
type RedisSnapshotStore struct {
	client *pkgredis.Client
	key    string
}

// NewRedisSnapshotStore namespaces the provided key under the snapshot prefix.
func NewRedisSnapshotStore(client *pkgredis.Client, key string) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, key: client.SnapshotKey(key)}
}

func (s *RedisSnapshotStore) Save(ctx context.Context, payload []byte) error {
	return s.client.Set(ctx, s.key, payload)
}

func (s *RedisSnapshotStore) Load(ctx context.Context) ([]byte, error) {
	payload, err := s.client.GetBytes(ctx, s.key)
	if errors.Is(err, pkgredis.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}
