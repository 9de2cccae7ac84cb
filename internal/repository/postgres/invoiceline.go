package postgres

import (
	"context"
	"database/sql"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	pg "github.com/ariesone/dme-billing-engine/internal/postgres"
)

// InvoiceLineRepository is invoiceline.Repository over Postgres. Update
// enforces the optimistic-concurrency check spec §5 requires on
// InvoiceLineID: the UPDATE's WHERE clause pins both id and the
// version the caller last read, and zero affected rows means someone
// else won the race.
type InvoiceLineRepository struct {
	db *pg.DB
}

func NewInvoiceLineRepository(db *pg.DB) *InvoiceLineRepository {
	return &InvoiceLineRepository{db: db}
}

func (r *InvoiceLineRepository) Create(ctx context.Context, l *invoiceline.Line) error {
	payload, err := marshalPayload(l)
	if err != nil {
		return err
	}
	_, err = r.db.GetQuerier(ctx).ExecContext(ctx,
		`INSERT INTO invoice_lines (id, invoice_id, order_line_id, version, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.InvoiceID, l.OrderLineID, l.Version, payload,
	)
	return wrapDatabase(err, "create invoice line")
}

func (r *InvoiceLineRepository) Get(ctx context.Context, id string) (*invoiceline.Line, error) {
	var payload []byte
	err := r.db.GetQuerier(ctx).GetContext(ctx, &payload, `SELECT payload FROM invoice_lines WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, wrapNotFound(err, "invoice line", id)
	}
	if err != nil {
		return nil, wrapDatabase(err, "get invoice line")
	}
	var l invoiceline.Line
	if err := unmarshalPayload(payload, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update writes l back only if its Version still matches the row's
// current version, then bumps it. A zero-rows result surfaces as
// errors.ErrVersionConflict, never silently succeeding.
func (r *InvoiceLineRepository) Update(ctx context.Context, l *invoiceline.Line) error {
	expectedVersion := l.Version
	l.Version++
	payload, err := marshalPayload(l)
	if err != nil {
		l.Version = expectedVersion
		return err
	}

	res, err := r.db.GetQuerier(ctx).ExecContext(ctx,
		`UPDATE invoice_lines SET payload = $1, version = $2 WHERE id = $3 AND version = $4`,
		payload, l.Version, l.ID, expectedVersion,
	)
	if err != nil {
		l.Version = expectedVersion
		return wrapDatabase(err, "update invoice line")
	}
	rows, err := res.RowsAffected()
	if err != nil {
		l.Version = expectedVersion
		return wrapDatabase(err, "update invoice line")
	}
	if rows == 0 {
		l.Version = expectedVersion
		return ierr.NewError("invoice line version conflict").
			WithHintf("invoice line %s was modified by another writer", l.ID).
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}

func (r *InvoiceLineRepository) ListForInvoice(ctx context.Context, invoiceID string) ([]*invoiceline.Line, error) {
	var payloads [][]byte
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &payloads,
		`SELECT payload FROM invoice_lines WHERE invoice_id = $1 ORDER BY id ASC`, invoiceID)
	if err != nil {
		return nil, wrapDatabase(err, "list invoice lines for invoice")
	}
	lines := make([]*invoiceline.Line, 0, len(payloads))
	for _, p := range payloads {
		var l invoiceline.Line
		if err := unmarshalPayload(p, &l); err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, nil
}
