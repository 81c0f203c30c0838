package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hausbase/membership/cache"
	apperrors "github.com/hausbase/membership/errors"
)

// RefreshTokenStore implements cache.RefreshTokenStore on Redis. Redis SET is
// atomic per key, which is exactly the upsert semantics the rotation invariant
// needs; no transaction or watch is required.
type RefreshTokenStore struct {
	client *redis.Client
	prefix string // Optional prefix for keys
	ttl    time.Duration
}

// NewRefreshTokenStore creates a new [RefreshTokenStore] instance. ttl should
// match the configured refresh token lifetime so records expire with the
// tokens they mirror.
func NewRefreshTokenStore(client *redis.Client, prefix string, ttl time.Duration) *RefreshTokenStore {
	return &RefreshTokenStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// redisKey returns the Redis key for a principal identity.
func (r *RefreshTokenStore) redisKey(key string) string {
	return fmt.Sprintf("%s:refresh:%s", r.prefix, key)
}

// Put stores the principal's current refresh token, overwriting any prior
// value for the key.
func (r *RefreshTokenStore) Put(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.redisKey(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set refresh token in Redis: %w", err)
	}

	return nil
}

// Get retrieves the principal's current refresh token record.
func (r *RefreshTokenStore) Get(ctx context.Context, key string) (*cache.RefreshTokenRecord, error) {
	value, err := r.client.Get(ctx, r.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNoActiveSession
		}
		return nil, fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	return &cache.RefreshTokenRecord{Key: key, Value: value}, nil
}

// Delete removes the principal's record. Redis DEL on a missing key is a
// no-op, so deletion is idempotent.
func (r *RefreshTokenStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete refresh token from Redis: %w", err)
	}

	return nil
}

// Close closes the underlying Redis client.
func (r *RefreshTokenStore) Close() error {
	return r.client.Close()
}

var _ cache.RefreshTokenStore = (*RefreshTokenStore)(nil)
