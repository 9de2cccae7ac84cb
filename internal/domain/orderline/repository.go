package orderline

import "context"

// Repository is the named external collaborator for order line
// persistence.
type Repository interface {
	Create(ctx context.Context, l *OrderLine) error
	Get(ctx context.Context, id string) (*OrderLine, error)
	Update(ctx context.Context, l *OrderLine) error
	// ListDueForOrder returns every active order line belonging to
	// orderID; the Invoice Generator filters these further by billing
	// month and flag set.
	ListDueForOrder(ctx context.Context, orderID string) ([]*OrderLine, error)
}
