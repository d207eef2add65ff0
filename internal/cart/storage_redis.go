package cart

import (
	"context"
	"errors"
	"time"

	pkgredis "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/redis"
)

type redisKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Ping(ctx context.Context) error
	CartKey(storageKey string) string
}

// RedisStorage persists carts as JSON strings in redis.
type RedisStorage struct {
	client redisKV
	ttl    time.Duration
}

// NewRedisStorage binds the storage to a redis client. A positive ttl expires
// carts that have not been written for that long.
func NewRedisStorage(client redisKV, ttl time.Duration) *RedisStorage {
	return &RedisStorage{client: client, ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.client.CartKey(key))
	if err != nil {
		if errors.Is(err, pkgredis.ErrNil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *RedisStorage) Save(ctx context.Context, key string, payload []byte) error {
	return r.client.Set(ctx, r.client.CartKey(key), string(payload), r.ttl)
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
