package cache

import (
	"context"
	"strings"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/config"
	goCache "github.com/patrickmn/go-cache"
)

// DefaultExpiration is used when a caller sets no per-key expiration.
const DefaultExpiration = 5 * time.Minute

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = 10 * time.Minute

// InMemoryCache implements Cache with patrickmn/go-cache, config-gated
// by cfg.Cache.Enabled so a disabled cache degrades every lookup to a
// miss rather than panicking callers.
type InMemoryCache struct {
	cache *goCache.Cache
	cfg   *config.Configuration
}

// NewInMemoryCache builds an InMemoryCache honoring cfg.Cache's TTL and
// cleanup interval (falling back to the package defaults when unset).
func NewInMemoryCache(cfg *config.Configuration) *InMemoryCache {
	ttl := DefaultExpiration
	cleanup := DefaultCleanupInterval
	if cfg.Cache.TTLSeconds > 0 {
		ttl = time.Duration(cfg.Cache.TTLSeconds) * time.Second
	}
	if cfg.Cache.CleanupSeconds > 0 {
		cleanup = time.Duration(cfg.Cache.CleanupSeconds) * time.Second
	}
	return &InMemoryCache{cache: goCache.New(ttl, cleanup), cfg: cfg}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	if !c.cfg.Cache.Enabled {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) {
	if !c.cfg.Cache.Enabled {
		return
	}
	c.cache.Set(key, value, expiration)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	if !c.cfg.Cache.Enabled {
		return
	}
	c.cache.Delete(key)
}

func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	if !c.cfg.Cache.Enabled {
		return
	}
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}

func (c *InMemoryCache) Flush(_ context.Context) {
	if !c.cfg.Cache.Enabled {
		return
	}
	c.cache.Flush()
}
