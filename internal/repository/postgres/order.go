package postgres

import (
	"context"
	"database/sql"

	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

type OrderRepository struct {
	db *pg.DB
}

func NewOrderRepository(db *pg.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	payload, err := marshalPayload(o)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, payload) VALUES ($1, $2, $3)`,
		o.ID, o.CustomerID, payload,
	)
	return wrapDatabase(err, "create order")
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM orders WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "order", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get order")
	}
	var o order.Order
	if err := unmarshalPayload(payload, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	payload, err := marshalPayload(o)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE orders SET payload = $1 WHERE id = $2`, payload, o.ID,
	)
	return wrapDatabase(err, "update order")
}

// ListApproved filters on the payload's own "approved" field rather
// than a dedicated column, consistent with this store's
// JSONB-payload-per-aggregate layout.
func (r *OrderRepository) ListApproved(ctx context.Context) ([]*order.Order, error) {
	var payloads [][]byte
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads,
		`SELECT payload FROM orders WHERE (payload->>'approved')::boolean IS TRUE ORDER BY id ASC`)
	if err != nil {
		return nil, wrapDatabase(err, "list approved orders")
	}
	orders := make([]*order.Order, 0, len(payloads))
	for _, p := range payloads {
		var o order.Order
		if err := unmarshalPayload(p, &o); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, nil
}
