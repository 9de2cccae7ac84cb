package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/logger"
)

// RetryOnVersionConflict runs fn inside WithTx, retrying the whole
// attempt with exponential backoff whenever fn fails with
// errors.ErrVersionConflict. Posting a payment and recalculating an
// invoice line read-modify-write the same row; under contention the
// optimistic-concurrency check in the invoice line repository's
// Update can lose the race, and the right response is to re-read and
// redo the attempt rather than surface the conflict to the caller.
func RetryOnVersionConflict(ctx context.Context, db TxRunner, log *logger.Logger, fn func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 20 * time.Millisecond
	bo.MaxInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 3 * time.Second
	policy := backoff.WithMaxRetries(bo, 5)

	attempt := 0
	op := func() error {
		attempt++
		err := db.WithTx(ctx, fn)
		if err == nil {
			return nil
		}
		if ierr.IsVersionConflict(err) {
			log.WithContext(ctx).Debugw("retrying after version conflict", "attempt", attempt)
			return err
		}
		return backoff.Permanent(err)
	}

	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		if perm, ok := err.(*backoff.PermanentError); ok {
			return perm.Unwrap()
		}
		return err
	}
	return nil
}
