package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/w2wlabs/what2watch/internal/platform/logging"
)

// RedisStore backs the cache with a shared Redis instance so multiple
// replicas see the same fixture snapshots. Redis errors degrade to cache
// misses instead of failing the request.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *logging.Logger
}

func NewRedisStore(client *redis.Client, prefix string, logger *logging.Logger) *RedisStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}

	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "redis cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if key == "" {
		return
	}

	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache write failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}

	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.WarnContext(ctx, "redis cache delete failed", "key", key, "error", err)
	}
}
