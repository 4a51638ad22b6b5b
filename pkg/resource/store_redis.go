package resource

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithRedisTTL sets the expiration used when Set is called with a zero TTL.
// Default: 1 hour.
func WithRedisTTL(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		s.defaultTTL = d
	}
}

// WithRedisPrefix namespaces keys as "{prefix}:{key}".
// Default: "fluent".
func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// RedisStore is a Store backed by Redis, shared between processes.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedisStore creates a RedisStore. The client lifecycle stays with the caller.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client:     client,
		prefix:     "fluent",
		defaultTTL: time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored source.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	src, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return src, nil
}

// Set stores source under key.
func (s *RedisStore) Set(ctx context.Context, key, source string, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.defaultTTL
	}
	// Redis treats 0 as no expiration.
	return s.client.Set(ctx, s.key(key), source, max(ttl, 0)).Err()
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Clear removes every key under the prefix using SCAN, or flushes the
// database when no prefix is set.
func (s *RedisStore) Clear(ctx context.Context) error {
	if s.prefix == "" {
		return s.client.FlushDB(ctx).Err()
	}

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+":*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Close is a no-op; close the client separately.
func (s *RedisStore) Close() error {
	return nil
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

var _ Store = (*RedisStore)(nil)
