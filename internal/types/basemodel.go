package types

import "time"

// Status is the soft lifecycle state of a persisted record, orthogonal
// to any billing-domain status (InvoiceStatus, OrderLineState, ...).
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

// BaseModel carries the ambient bookkeeping fields every persisted
// entity gets. None of these participate in any billing invariant; the
// Recalculator never reads them.
type BaseModel struct {
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	Status    Status    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	UpdatedBy string    `json:"updated_by" db:"updated_by"`
}
