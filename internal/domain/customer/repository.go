package customer

import "context"

// Repository is the named external collaborator for customer
// persistence (spec §1: the relational store is out of scope; this
// interface is its boundary).
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	List(ctx context.Context, ids []string) ([]*Customer, error)
}
