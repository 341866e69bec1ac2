package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// tagKeyPrefix namespaces the tag registry sets away from entry keys.
const tagKeyPrefix = "cachetag:"

// RedisStore is the production cache backend. Tag registries are Redis
// sets holding the member keys of each namespace.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects a RedisStore to the given server.
func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Get returns the cached value for key, or ErrMiss when absent.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Set stores the value with its TTL and registers the key under each tag.
// Tag sets get their expiry pushed out so they never vanish before a
// member entry does; stale members are harmless, deleting an expired key
// is a no-op.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKeyPrefix+tag, key)
		pipe.ExpireGT(ctx, tagKeyPrefix+tag, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate deletes every key registered under the given tags, then the
// tag registries themselves.
func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		keys, err := s.client.SMembers(ctx, tagKeyPrefix+tag).Result()
		if err != nil {
			return err
		}
		keys = append(keys, tagKeyPrefix+tag)
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}
