package policy

import "context"

// Repository is the named external collaborator for policy
// persistence.
type Repository interface {
	Create(ctx context.Context, p *Policy) error
	Get(ctx context.Context, id string) (*Policy, error)
	Update(ctx context.Context, p *Policy) error
	ListForCustomer(ctx context.Context, customerID string) ([]*Policy, error)
}
