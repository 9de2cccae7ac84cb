package order

import "context"

// Repository is the named external collaborator for order persistence.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o *Order) error
	// ListApproved returns every Approved order, the set the scheduled
	// invoice generation batch (cmd/server) walks each billing pass.
	ListApproved(ctx context.Context) ([]*Order, error)
}
