package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
)

type PolicyRepository struct {
	mu   sync.RWMutex
	rows map[string]*policy.Policy
}

func NewPolicyRepository() *PolicyRepository {
	return &PolicyRepository{rows: make(map[string]*policy.Policy)}
}

func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[p.ID]; exists {
		return ierr.NewError("policy already exists").
			WithHintf("policy %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *PolicyRepository) Get(ctx context.Context, id string) (*policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, ierr.NewError("policy not found").
			WithHintf("policy %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (r *PolicyRepository) Update(ctx context.Context, p *policy.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; !ok {
		return ierr.NewError("policy not found").
			WithHintf("policy %s not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	cp := *p
	r.rows[p.ID] = &cp
	return nil
}

func (r *PolicyRepository) ListForCustomer(ctx context.Context, customerID string) ([]*policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*policy.Policy, 0)
	for _, p := range r.rows {
		if p.CustomerID == customerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
