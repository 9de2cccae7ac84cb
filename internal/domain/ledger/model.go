// Package ledger holds the append-only LedgerTransaction log (spec
// §4.B) each invoice line's projection is reduced from.
package ledger

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger row. IDs are ULIDs
// (types.GenerateID), which makes ascending-ID order identical to
// insertion order — the ordering contract the Recalculator depends on
// (spec §4.B, §4.C, §5) falls directly out of the ID scheme rather than
// needing a separate sequence column.
type Transaction struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	InvoiceID   string `json:"invoice_id"`
	InvoiceLineID string `json:"invoice_line_id"`

	// InsuranceCompanyID/CustomerInsuranceID are both nil for a patient
	// transaction. Spec §3 invariant: "if InsuranceCompanyID is null
	// then CustomerInsuranceID is null".
	InsuranceCompanyID *string `json:"insurance_company_id,omitempty"`
	CustomerInsuranceID *string `json:"customer_insurance_id,omitempty"`

	Kind   types.TransactionKind `json:"kind"`
	Amount decimal.Decimal       `json:"amount"`

	// TransactionDate is informational only and may be backdated; it
	// never affects reduction order (spec §4.B).
	TransactionDate time.Time `json:"transaction_date"`

	Extra    string `json:"extra,omitempty"`
	Comments string `json:"comments,omitempty"`

	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate enforces the one cross-field invariant the ledger itself
// owns; every other invariant belongs to the Recalculator's output.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if t.InvoiceLineID == "" {
		return ierr.NewValidationError("invoice_line_id", "is required")
	}
	if t.InsuranceCompanyID == nil && t.CustomerInsuranceID != nil {
		return ierr.NewValidationError("customer_insurance_id", "must be null when insurance_company_id is null")
	}
	return nil
}
