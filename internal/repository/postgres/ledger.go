package postgres

import (
	"context"

	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

// LedgerRepository is ledger.Repository over Postgres. There is no
// Update/Delete path: the table is insert-only, matching spec §3's
// "transactions are immutable once committed".
type LedgerRepository struct {
	db *pg.DB
}

func NewLedgerRepository(db *pg.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, tx *ledger.Transaction) error {
	payload, err := marshalPayload(tx)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO ledger_transactions (id, invoice_line_id, invoice_id, payload)
		 VALUES ($1, $2, $3, $4)`,
		tx.ID, tx.InvoiceLineID, tx.InvoiceID, payload,
	)
	return wrapDatabase(err, "append ledger transaction")
}

func (r *LedgerRepository) ListForLine(ctx context.Context, invoiceLineID string) ([]*ledger.Transaction, error) {
	return r.list(ctx, `SELECT payload FROM ledger_transactions WHERE invoice_line_id = $1 ORDER BY id ASC`, invoiceLineID)
}

func (r *LedgerRepository) ListForInvoice(ctx context.Context, invoiceID string) ([]*ledger.Transaction, error) {
	return r.list(ctx, `SELECT payload FROM ledger_transactions WHERE invoice_id = $1 ORDER BY id ASC`, invoiceID)
}

func (r *LedgerRepository) list(ctx context.Context, query, arg string) ([]*ledger.Transaction, error) {
	var payloads [][]byte
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads, query, arg); err != nil {
		return nil, wrapDatabase(err, "list ledger transactions")
	}
	txs := make([]*ledger.Transaction, 0, len(payloads))
	for _, p := range payloads {
		var tx ledger.Transaction
		if err := unmarshalPayload(p, &tx); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, nil
}
