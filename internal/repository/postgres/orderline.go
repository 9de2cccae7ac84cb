package postgres

import (
	"context"
	"database/sql"

	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

type OrderLineRepository struct {
	db *pg.DB
}

func NewOrderLineRepository(db *pg.DB) *OrderLineRepository {
	return &OrderLineRepository{db: db}
}

func (r *OrderLineRepository) Create(ctx context.Context, l *orderline.OrderLine) error {
	payload, err := marshalPayload(l)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO order_lines (id, order_id, active, payload) VALUES ($1, $2, $3, $4)`,
		l.ID, l.OrderID, l.Active, payload,
	)
	return wrapDatabase(err, "create order line")
}

func (r *OrderLineRepository) Get(ctx context.Context, id string) (*orderline.OrderLine, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM order_lines WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "order line", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get order line")
	}
	var l orderline.OrderLine
	if err := unmarshalPayload(payload, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *OrderLineRepository) Update(ctx context.Context, l *orderline.OrderLine) error {
	payload, err := marshalPayload(l)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE order_lines SET active = $1, payload = $2 WHERE id = $3`, l.Active, payload, l.ID,
	)
	return wrapDatabase(err, "update order line")
}

func (r *OrderLineRepository) ListDueForOrder(ctx context.Context, orderID string) ([]*orderline.OrderLine, error) {
	var payloads [][]byte
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads,
		`SELECT payload FROM order_lines WHERE order_id = $1 AND active = true ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, wrapDatabase(err, "list order lines due for order")
	}
	lines := make([]*orderline.OrderLine, 0, len(payloads))
	for _, p := range payloads {
		var l orderline.OrderLine
		if err := unmarshalPayload(p, &l); err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, nil
}
