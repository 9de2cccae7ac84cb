package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ariesone/dme-billing-engine/internal/types"
)

// TxRunner is the transaction-demarcation contract internal/service
// depends on, mirroring the teacher's own IClient.WithTx split out as
// an interface: the concrete *DB is the only production implementation,
// but tests can supply a lightweight stand-in backed by the in-memory
// repository adapters instead of a real connection.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

// TxKey is the context key the in-flight *Tx is stored under.
type TxKey struct{}

// Tx wraps sqlx.Tx with savepoint support, so the invoice-generation
// and payment-posting call chains can nest WithTx calls without
// opening a second real transaction (spec §5: "the post-and-recalculate
// pair" must commit atomically together with whatever caller already
// holds a transaction open).
type Tx struct {
	*sqlx.Tx
	savepointID int
	ID          string
}

// GetTx retrieves the in-flight transaction from ctx, if any.
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(TxKey{}).(*Tx)
	return tx, ok
}

// BeginTx starts a new transaction, or a savepoint if one is already
// open on ctx.
func (db *DB) BeginTx(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.savepointID++
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("SAVEPOINT %s", savepoint)); err != nil {
			return ctx, nil, fmt.Errorf("create savepoint: %w", err)
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}

	tx := &Tx{Tx: sqlxTx, ID: types.GenerateID()}
	return context.WithValue(ctx, TxKey{}, tx), tx, nil
}

// CommitTx commits the current transaction level (releasing a
// savepoint if nested).
func (db *DB) CommitTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("RELEASE SAVEPOINT %s", savepoint)); err != nil {
			return fmt.Errorf("release savepoint: %w", err)
		}
		tx.savepointID--
		return nil
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RollbackTx rolls back the current transaction level.
func (db *DB) RollbackTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction in context")
	}
	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %s", savepoint)); err != nil {
			return fmt.Errorf("rollback to savepoint: %w", err)
		}
		tx.savepointID--
		return nil
	}
	if err := tx.Rollback(); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction (or savepoint), committing on
// success and rolling back on error or panic.
func (db *DB) WithTx(ctx context.Context, fn func(context.Context) error) error {
	ctx, tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "panic", r)
			_ = db.RollbackTx(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := db.RollbackTx(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	return db.CommitTx(ctx)
}
