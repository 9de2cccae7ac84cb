package invoiceline

import "context"

// Repository is the named external collaborator for invoice-line
// persistence. Update must enforce the optimistic-concurrency Version
// check (spec §5) and return errors.ErrVersionConflict on mismatch.
type Repository interface {
	Create(ctx context.Context, l *Line) error
	Get(ctx context.Context, id string) (*Line, error)
	Update(ctx context.Context, l *Line) error
	ListForInvoice(ctx context.Context, invoiceID string) ([]*Line, error)
}
