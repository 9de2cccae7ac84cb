// Package memory holds in-process reference implementations of every
// domain Repository interface, backed by maps guarded by a
// sync.RWMutex rather than a database. Used by the tests; cmd/server
// wires the Postgres repositories.
package memory

import (
	"context"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
)

type CustomerRepository struct {
	mu   sync.RWMutex
	rows map[string]*customer.Customer
}

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{rows: make(map[string]*customer.Customer)}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[c.ID]; exists {
		return ierr.NewError("customer already exists").
			WithHintf("customer %s already exists", c.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("customer not found").
			WithHintf("customer %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[c.ID]; !ok {
		return ierr.NewError("customer not found").
			WithHintf("customer %s not found", c.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, ids []string) ([]*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*customer.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.rows[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}
