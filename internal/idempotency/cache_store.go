package idempotency

import (
	"context"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/cache"
)

// CacheStore is the default, in-process Store, backed by
// internal/cache. cmd/server wires it up when DynamoDB is not in use;
// the durable cross-process backing is internal/dynamodb.Store.
type CacheStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheStore builds a CacheStore. ttl bounds how long a dedup key is
// remembered; zero falls back to the underlying cache's default
// expiration.
func NewCacheStore(c cache.Cache, ttl time.Duration) *CacheStore {
	return &CacheStore{cache: c, ttl: ttl}
}

func (s *CacheStore) key(scope Scope, key string) string {
	return cache.GenerateKey(cache.PrefixIdempotency, string(scope), key)
}

func (s *CacheStore) Seen(ctx context.Context, scope Scope, key string) (bool, error) {
	_, found := s.cache.Get(ctx, s.key(scope, key))
	return found, nil
}

func (s *CacheStore) Record(ctx context.Context, scope Scope, key string) error {
	s.cache.Set(ctx, s.key(scope, key), true, s.ttl)
	return nil
}
