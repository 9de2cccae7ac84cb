package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/cache"
	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKey_SameParamsDifferentOrder_ProducesSameKey(t *testing.T) {
	g := NewGenerator()
	k1 := g.GenerateKey(ScopeCheckNumberGuid, map[string]interface{}{"check_number": "123", "posting_guid": "abc"})
	k2 := g.GenerateKey(ScopeCheckNumberGuid, map[string]interface{}{"posting_guid": "abc", "check_number": "123"})
	assert.Equal(t, k1, k2)
}

func TestGenerateKey_DifferentParams_ProducesDifferentKey(t *testing.T) {
	g := NewGenerator()
	k1 := g.GenerateKey(ScopeCheckNumberGuid, map[string]interface{}{"check_number": "123"})
	k2 := g.GenerateKey(ScopeCheckNumberGuid, map[string]interface{}{"check_number": "124"})
	assert.NotEqual(t, k1, k2)
}

func TestValidateKey(t *testing.T) {
	g := NewGenerator()
	params := map[string]interface{}{"check_number": "123"}
	key := g.GenerateKey(ScopeCheckNumberGuid, params)
	assert.True(t, g.ValidateKey(ScopeCheckNumberGuid, params, key))
	assert.False(t, g.ValidateKey(ScopeCheckNumberGuid, map[string]interface{}{"check_number": "999"}, key))
}

func TestCacheStore_SeenBeforeRecord_ReportsFalse(t *testing.T) {
	cfg := config.GetDefaultConfig()
	store := NewCacheStore(cache.NewInMemoryCache(cfg), time.Minute)

	seen, err := store.Seen(context.Background(), ScopeAutoSubmit, "line-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestCacheStore_RecordThenSeen_ReportsTrue(t *testing.T) {
	cfg := config.GetDefaultConfig()
	store := NewCacheStore(cache.NewInMemoryCache(cfg), time.Minute)

	require.NoError(t, store.Record(context.Background(), ScopeAutoSubmit, "line-1"))
	seen, err := store.Seen(context.Background(), ScopeAutoSubmit, "line-1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestCacheStore_DisabledCache_NeverReportsSeen(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Cache.Enabled = false
	store := NewCacheStore(cache.NewInMemoryCache(cfg), time.Minute)

	require.NoError(t, store.Record(context.Background(), ScopeAutoSubmit, "line-1"))
	seen, err := store.Seen(context.Background(), ScopeAutoSubmit, "line-1")
	require.NoError(t, err)
	assert.False(t, seen)
}
