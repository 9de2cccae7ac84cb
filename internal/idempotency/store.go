package idempotency

import "context"

// Store is the durable/in-process "has this already been posted?"
// check service.PostPayment consults as an optional request-level
// guard; the posters themselves dedupe by scanning the ledger.
// idempotency.CacheStore and dynamodb.Store each implement it.
type Store interface {
	// Seen reports whether key was already Record'd under scope.
	Seen(ctx context.Context, scope Scope, key string) (bool, error)
	// Record marks key as seen under scope. Safe to call after Seen
	// returns false, immediately before the guarded write commits.
	Record(ctx context.Context, scope Scope, key string) error
}
