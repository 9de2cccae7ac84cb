package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
)

// InvoiceLineRepository mirrors the optimistic-concurrency contract of
// its Postgres sibling: Update rejects a write whose Version doesn't
// match the stored row, returning errors.ErrVersionConflict.
type InvoiceLineRepository struct {
	mu   sync.RWMutex
	rows map[string]*invoiceline.Line
}

func NewInvoiceLineRepository() *InvoiceLineRepository {
	return &InvoiceLineRepository{rows: make(map[string]*invoiceline.Line)}
}

func (r *InvoiceLineRepository) Create(ctx context.Context, l *invoiceline.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[l.ID]; exists {
		return ierr.NewError("invoice line already exists").
			WithHintf("invoice line %s already exists", l.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *l
	r.rows[l.ID] = &cp
	return nil
}

func (r *InvoiceLineRepository) Get(ctx context.Context, id string) (*invoiceline.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("invoice line not found").
			WithHintf("invoice line %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *l
	return &cp, nil
}

func (r *InvoiceLineRepository) Update(ctx context.Context, l *invoiceline.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[l.ID]
	if !ok {
		return ierr.NewError("invoice line not found").
			WithHintf("invoice line %s not found", l.ID).
			Mark(ierr.ErrNotFound)
	}
	if existing.Version != l.Version {
		return ierr.NewError("invoice line version conflict").
			WithHintf("invoice line %s was modified by another writer", l.ID).
			Mark(ierr.ErrVersionConflict)
	}
	cp := *l
	cp.Version++
	r.rows[l.ID] = &cp
	l.Version = cp.Version
	return nil
}

func (r *InvoiceLineRepository) ListForInvoice(ctx context.Context, invoiceID string) ([]*invoiceline.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*invoiceline.Line, 0)
	for _, l := range r.rows {
		if l.InvoiceID == invoiceID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
