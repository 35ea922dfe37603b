package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisCacheStore is a CacheStore backed by Redis, for deployments running
// more than one API replica behind a load balancer. All keys live under a
// common namespace so invalidation can scan them without touching other
// tenants of the Redis instance.
type RedisCacheStore struct {
	client    *redis.Client
	namespace string
	logger    zerolog.Logger
}

// NewRedisCacheStore creates a RedisCacheStore from a Redis URL
// (e.g. redis://localhost:6379/0).
func NewRedisCacheStore(url string, logger zerolog.Logger) (*RedisCacheStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCacheStore{
		client:    client,
		namespace: "careflow:cache:",
		logger:    logger,
	}, nil
}

// Get retrieves a value from Redis. Errors are treated as cache misses so a
// Redis outage degrades to uncached reads instead of failing requests.
func (s *RedisCacheStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("redis cache get failed")
		}
		return nil, false
	}
	return data, true
}

// Set stores a value in Redis with the given TTL.
func (s *RedisCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, s.namespace+key, value, ttl).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("redis cache set failed")
	}
}

// Invalidate removes all entries whose key starts with prefix.
func (s *RedisCacheStore) Invalidate(ctx context.Context, prefix string) {
	s.deleteByPattern(ctx, s.namespace+prefix+"*")
}

// Clear removes all entries in the cache namespace.
func (s *RedisCacheStore) Clear(ctx context.Context) {
	s.deleteByPattern(ctx, s.namespace+"*")
}

func (s *RedisCacheStore) deleteByPattern(ctx context.Context, pattern string) {
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("redis cache scan failed")
		return
	}
	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("redis cache delete failed")
		}
	}
}

// Close releases the underlying Redis connection.
func (s *RedisCacheStore) Close() error {
	return s.client.Close()
}
