// Package cache defines the generic key/value cache contract the
// idempotency store and MIR rule memoization (SPEC_FULL.md §4.J) both
// sit on top of.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is the interface every cache backing implements.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
	Flush(ctx context.Context)
}

// Key prefixes for the entity kinds this engine caches.
const (
	PrefixIdempotency = "idempotency:v1:"
	PrefixMIRRule     = "mir_rule:v1:"
)

// GenerateKey joins prefix and params into one namespaced cache key.
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix
	for i, p := range params {
		parts[i+1] = fmt.Sprintf("%v", p)
	}
	return strings.Join(parts, ":")
}
