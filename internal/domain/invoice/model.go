// Package invoice holds the Invoice aggregate produced by the Invoice
// Generator (§4.F) from a due Order for a given billing month.
package invoice

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is created from an Order for one billing month; it snapshots
// the policies and ICD codes active at generation time.
type Invoice struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	OrderID    string `json:"order_id"`

	BillingMonth int       `json:"billing_month"`
	InvoiceDate  time.Time `json:"invoice_date"`

	Status types.InvoiceStatus `json:"status"`

	// Snapshots taken at generation time (spec §3 Invoice: "snapshots
	// policies and ICDs").
	CustomerInsurance1ID *string  `json:"customer_insurance_1_id,omitempty"`
	CustomerInsurance2ID *string  `json:"customer_insurance_2_id,omitempty"`
	CustomerInsurance3ID *string  `json:"customer_insurance_3_id,omitempty"`
	CustomerInsurance4ID *string  `json:"customer_insurance_4_id,omitempty"`
	ICD9Codes            []string `json:"icd9_codes,omitempty"`
	ICD10Codes           []string `json:"icd10_codes,omitempty"`

	// InvoiceBalance is the running total across every InvoiceLine
	// belonging to this invoice; it is a cache, never authoritative —
	// the per-line Balance computed by the Recalculator always is.
	InvoiceBalance decimal.Decimal `json:"invoice_balance"`

	types.BaseModel
}

func (i *Invoice) Validate() error {
	if i.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if i.CustomerID == "" {
		return ierr.NewValidationError("customer_id", "is required")
	}
	if i.OrderID == "" {
		return ierr.NewValidationError("order_id", "is required")
	}
	if i.BillingMonth <= 0 {
		return ierr.NewValidationError("billing_month", "must be >= 1")
	}
	return nil
}
