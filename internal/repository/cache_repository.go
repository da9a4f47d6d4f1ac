package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/student-records-api/pkg/errors"
)

// CacheRepository stores JSON snapshots in Redis. A nil client turns every call
// into a miss or no-op so callers need no separate disabled path.
type CacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCacheRepository constructs a cache repository.
func NewCacheRepository(client *redis.Client, logger *zap.Logger) *CacheRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheRepository{client: client, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (r *CacheRepository) Enabled() bool {
	return r != nil && r.client != nil
}

// Get decodes the cached value for key into dest or returns ErrCacheMiss.
func (r *CacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if !r.Enabled() {
		return appErrors.ErrCacheMiss
	}
	raw, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return appErrors.ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Set stores value under key for ttl.
func (r *CacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// DeleteByPattern removes every key matching pattern and returns how many were removed.
func (r *CacheRepository) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	if !r.Enabled() {
		return 0, nil
	}
	removed := 0
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("redis delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan pattern %s: %w", pattern, err)
	}
	return removed, nil
}

// Close releases the Redis connection if present.
func (r *CacheRepository) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
