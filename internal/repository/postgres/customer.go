package postgres

import (
	"context"
	"database/sql"

	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
	"github.com/lib/pq"
)

type CustomerRepository struct {
	db *pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	payload, err := marshalPayload(c)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO customers (id, payload) VALUES ($1, $2)`, c.ID, payload,
	)
	return wrapDatabase(err, "create customer")
}

func (r *CustomerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM customers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "customer", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get customer")
	}
	var c customer.Customer
	if err := unmarshalPayload(payload, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	payload, err := marshalPayload(c)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE customers SET payload = $1 WHERE id = $2`, payload, c.ID,
	)
	return wrapDatabase(err, "update customer")
}

func (r *CustomerRepository) List(ctx context.Context, ids []string) ([]*customer.Customer, error) {
	var payloads [][]byte
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads,
		`SELECT payload FROM customers WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, wrapDatabase(err, "list customers")
	}
	customers := make([]*customer.Customer, 0, len(payloads))
	for _, p := range payloads {
		var c customer.Customer
		if err := unmarshalPayload(p, &c); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}
	return customers, nil
}
