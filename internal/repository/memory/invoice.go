package memory

import (
	"context"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/invoice"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
)

type InvoiceRepository struct {
	mu   sync.RWMutex
	rows map[string]*invoice.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{rows: make(map[string]*invoice.Invoice)}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[inv.ID]; exists {
		return ierr.NewError("invoice already exists").
			WithHintf("invoice %s already exists", inv.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *inv
	r.rows[inv.ID] = &cp
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("invoice not found").
			WithHintf("invoice %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[inv.ID]; !ok {
		return ierr.NewError("invoice not found").
			WithHintf("invoice %s not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *inv
	r.rows[inv.ID] = &cp
	return nil
}
