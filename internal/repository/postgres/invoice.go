package postgres

import (
	"context"
	"database/sql"

	"github.com/ariesone/dme-billing-engine/internal/domain/invoice"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

type InvoiceRepository struct {
	db *pg.DB
}

func NewInvoiceRepository(db *pg.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	payload, err := marshalPayload(inv)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO invoices (id, customer_id, order_id, payload) VALUES ($1, $2, $3, $4)`,
		inv.ID, inv.CustomerID, inv.OrderID, payload,
	)
	return wrapDatabase(err, "create invoice")
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM invoices WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "invoice", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get invoice")
	}
	var inv invoice.Invoice
	if err := unmarshalPayload(payload, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	payload, err := marshalPayload(inv)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE invoices SET payload = $1 WHERE id = $2`, payload, inv.ID,
	)
	return wrapDatabase(err, "update invoice")
}
