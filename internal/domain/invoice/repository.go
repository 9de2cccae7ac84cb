package invoice

import "context"

// Repository is the named external collaborator for invoice
// persistence.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
}
