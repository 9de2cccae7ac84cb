package postgres

import (
	"context"
	"database/sql"

	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

type PolicyRepository struct {
	db *pg.DB
}

func NewPolicyRepository(db *pg.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

func (r *PolicyRepository) Create(ctx context.Context, p *policy.Policy) error {
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO policies (id, customer_id, payload) VALUES ($1, $2, $3)`,
		p.ID, p.CustomerID, payload,
	)
	return wrapDatabase(err, "create policy")
}

func (r *PolicyRepository) Get(ctx context.Context, id string) (*policy.Policy, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM policies WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "policy", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get policy")
	}
	var p policy.Policy
	if err := unmarshalPayload(payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PolicyRepository) Update(ctx context.Context, p *policy.Policy) error {
	payload, err := marshalPayload(p)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE policies SET payload = $1 WHERE id = $2`, payload, p.ID,
	)
	return wrapDatabase(err, "update policy")
}

func (r *PolicyRepository) ListForCustomer(ctx context.Context, customerID string) ([]*policy.Policy, error) {
	var payloads [][]byte
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads,
		`SELECT payload FROM policies WHERE customer_id = $1 ORDER BY id ASC`, customerID)
	if err != nil {
		return nil, wrapDatabase(err, "list policies for customer")
	}
	policies := make([]*policy.Policy, 0, len(payloads))
	for _, p := range payloads {
		var pol policy.Policy
		if err := unmarshalPayload(p, &pol); err != nil {
			return nil, err
		}
		policies = append(policies, &pol)
	}
	return policies, nil
}
