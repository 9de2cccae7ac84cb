package memory

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
)

type OrderLineRepository struct {
	mu   sync.RWMutex
	rows map[string]*orderline.OrderLine
}

func NewOrderLineRepository() *OrderLineRepository {
	return &OrderLineRepository{rows: make(map[string]*orderline.OrderLine)}
}

func (r *OrderLineRepository) Create(ctx context.Context, l *orderline.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[l.ID]; exists {
		return ierr.NewError("order line already exists").
			WithHintf("order line %s already exists", l.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *OrderLineRepository) Get(ctx context.Context, id string) (*orderline.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("order line not found").
			WithHintf("order line %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (r *OrderLineRepository) Update(ctx context.Context, l *orderline.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[l.ID]; !ok {
		return ierr.NewError("order line not found").
			WithHintf("order line %s not found", l.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *OrderLineRepository) ListDueForOrder(ctx context.Context, orderID string) ([]*orderline.OrderLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*orderline.OrderLine, 0)
	for _, l := range r.rows {
		if l.OrderID == orderID && l.Active {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
