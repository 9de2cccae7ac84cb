package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
)

// LedgerRepository is append-only, matching its Postgres sibling: no
// Update or Delete path exists on the interface at all.
type LedgerRepository struct {
	mu   sync.RWMutex
	rows []*ledger.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{}
}

func (r *LedgerRepository) Append(ctx context.Context, tx *ledger.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *tx
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *LedgerRepository) ListForLine(ctx context.Context, invoiceLineID string) ([]*ledger.Transaction, error) {
	return r.list(func(tx *ledger.Transaction) bool { return tx.InvoiceLineID == invoiceLineID })
}

func (r *LedgerRepository) ListForInvoice(ctx context.Context, invoiceID string) ([]*ledger.Transaction, error) {
	return r.list(func(tx *ledger.Transaction) bool { return tx.InvoiceID == invoiceID })
}

func (r *LedgerRepository) list(match func(*ledger.Transaction) bool) ([]*ledger.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ledger.Transaction, 0)
	for _, tx := range r.rows {
		if match(tx) {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
