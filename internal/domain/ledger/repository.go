package ledger

import "context"

// Repository is the named external collaborator for the append-only
// ledger. Append must never allow an UPDATE/DELETE path — transactions
// are immutable once committed (spec §3 Lifecycle).
type Repository interface {
	Append(ctx context.Context, tx *Transaction) error
	// ListForLine returns every transaction for invoiceLineID ordered
	// ascending by ID (== insertion order, spec §4.B).
	ListForLine(ctx context.Context, invoiceLineID string) ([]*Transaction, error)
	// ListForInvoice returns every transaction across all of an
	// invoice's lines, used by bulk recalculation selectors.
	ListForInvoice(ctx context.Context, invoiceID string) ([]*Transaction, error)
}
