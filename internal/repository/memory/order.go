package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
)

type OrderRepository struct {
	mu   sync.RWMutex
	rows map[string]*order.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{rows: make(map[string]*order.Order)}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[o.ID]; exists {
		return ierr.NewError("order already exists").
			WithHintf("order %s already exists", o.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *o
	r.rows[o.ID] = &cp
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("order not found").
			WithHintf("order %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[o.ID]; !ok {
		return ierr.NewError("order not found").
			WithHintf("order %s not found", o.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *o
	r.rows[o.ID] = &cp
	return nil
}

func (r *OrderRepository) ListApproved(ctx context.Context) ([]*order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*order.Order, 0, len(r.rows))
	for _, o := range r.rows {
		if !o.Approved {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
