package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	apperrors "github.com/hausbase/membership/errors"
)

// MemoryRefreshTokenStore implements RefreshTokenStore using ttlcache.
// Records expire together with the refresh token lifetime, so a stale record
// can never outlive the token it mirrors.
type MemoryRefreshTokenStore struct {
	cache *ttlcache.Cache[string, string]
	ttl   time.Duration
}

// NewMemoryRefreshTokenStore creates an in-memory store with automatic
// cleanup. ttl should match the configured refresh token lifetime.
func NewMemoryRefreshTokenStore(ttl time.Duration) *MemoryRefreshTokenStore {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)

	// Start the cleanup process
	go cache.Start()

	return &MemoryRefreshTokenStore{
		cache: cache,
		ttl:   ttl,
	}
}

// Put implements RefreshTokenStore.Put.
func (s *MemoryRefreshTokenStore) Put(_ context.Context, key, value string) error {
	s.cache.Set(key, value, s.ttl)
	return nil
}

// Get implements RefreshTokenStore.Get.
func (s *MemoryRefreshTokenStore) Get(_ context.Context, key string) (*RefreshTokenRecord, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, apperrors.ErrNoActiveSession
	}

	return &RefreshTokenRecord{Key: key, Value: item.Value()}, nil
}

// Delete implements RefreshTokenStore.Delete. Absence is not an error.
func (s *MemoryRefreshTokenStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)

	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryRefreshTokenStore) Close() error {
	s.cache.Stop()

	return nil
}
