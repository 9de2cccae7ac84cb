// Package invoiceline holds the InvoiceLine ("detail") aggregate: the
// single authoritative projection of one invoice line's ledger,
// recomputed in full by the Recalculator (spec §4.C) after every post.
package invoiceline

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// PayerDates holds one timestamp per payer slot (Ins1..4, Patient),
// used for both SubmitDate and, in the future, any other per-payer
// instant the projection needs to carry.
type PayerDates struct {
	Ins1    *time.Time `json:"ins1,omitempty"`
	Ins2    *time.Time `json:"ins2,omitempty"`
	Ins3    *time.Time `json:"ins3,omitempty"`
	Ins4    *time.Time `json:"ins4,omitempty"`
	Patient *time.Time `json:"patient,omitempty"`
}

// Get returns the timestamp for p, or nil if unset or p is not a valid
// payer slot (None is never set).
func (d PayerDates) Get(p payer.Type) *time.Time {
	switch p {
	case payer.Ins1:
		return d.Ins1
	case payer.Ins2:
		return d.Ins2
	case payer.Ins3:
		return d.Ins3
	case payer.Ins4:
		return d.Ins4
	case payer.Patient:
		return d.Patient
	default:
		return nil
	}
}

// Set writes t for payer slot p, a no-op for payer.None.
func (d *PayerDates) Set(p payer.Type, t *time.Time) {
	switch p {
	case payer.Ins1:
		d.Ins1 = t
	case payer.Ins2:
		d.Ins2 = t
	case payer.Ins3:
		d.Ins3 = t
	case payer.Ins4:
		d.Ins4 = t
	case payer.Patient:
		d.Patient = t
	}
}

// Line is one InvoiceLine: one OrderLine-month's billable detail, plus
// the entire ledger-derived projection (balance, current payer, submit
// state) the Recalculator maintains.
type Line struct {
	ID         string `json:"id"`
	InvoiceID  string `json:"invoice_id"`
	OrderLineID string `json:"order_line_id"`

	BillableAmount  decimal.Decimal `json:"billable_amount"`
	AllowableAmount decimal.Decimal `json:"allowable_amount"`
	Taxes           decimal.Decimal `json:"taxes"`
	Quantity        decimal.Decimal `json:"quantity"`

	// Modifiers 1..4 copied from the order line at generation time via
	// the §4.A InvoiceModifier primitive.
	Modifier1 string `json:"modifier_1"`
	Modifier2 string `json:"modifier_2"`
	Modifier3 string `json:"modifier_3"`
	Modifier4 string `json:"modifier_4"`

	// BillIns1..4 is the eligibility snapshot the Recalculator reads to
	// build its eligible-payer set V (spec §4.C).
	BillIns1 bool `json:"bill_ins_1"`
	BillIns2 bool `json:"bill_ins_2"`
	BillIns3 bool `json:"bill_ins_3"`
	BillIns4 bool `json:"bill_ins_4"`
	NopayIns1 bool `json:"nopay_ins_1"`

	// CustomerInsuranceID per slot, resolved at generation time from
	// the parent invoice's snapshot; used to resolve a ledger
	// transaction's owner (spec §4.C: "owner is derived from
	// CustomerInsuranceID: matches against the four policy slots").
	CustomerInsurance1ID *string `json:"customer_insurance_1_id,omitempty"`
	CustomerInsurance2ID *string `json:"customer_insurance_2_id,omitempty"`
	CustomerInsurance3ID *string `json:"customer_insurance_3_id,omitempty"`
	CustomerInsurance4ID *string `json:"customer_insurance_4_id,omitempty"`
	InsuranceCompany1ID  *string `json:"insurance_company_1_id,omitempty"`
	InsuranceCompany2ID  *string `json:"insurance_company_2_id,omitempty"`
	InsuranceCompany3ID  *string `json:"insurance_company_3_id,omitempty"`
	InsuranceCompany4ID  *string `json:"insurance_company_4_id,omitempty"`

	Hardship bool `json:"hardship"`

	// --- Recalculator-owned projection fields. Never written by
	// anything except Recalculate(); posters only append ledger rows
	// and then call Recalculate. ---

	Balance         decimal.Decimal `json:"balance"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	WriteoffAmount  decimal.Decimal `json:"writeoff_amount"`
	DeductibleAmount decimal.Decimal `json:"deductible_amount"`

	CurrentPayer               payer.Type `json:"current_payer"`
	CurrentCustomerInsuranceID *string    `json:"current_customer_insurance_id,omitempty"`
	CurrentInsuranceCompanyID  *string    `json:"current_insurance_company_id,omitempty"`

	Submitted     bool       `json:"submitted"`
	SubmittedDate *time.Time `json:"submitted_date,omitempty"`

	// Bit-encoded payer sets, persisted as plain integers (spec §9).
	Submits      payer.Set `json:"submits"`
	Pendings     payer.Set `json:"pendings"`
	Payments     payer.Set `json:"payments"`
	ZeroPayments payer.Set `json:"zero_payments"`

	SubmitDates PayerDates `json:"submit_dates"`

	types.BaseModel

	// Version supports optimistic concurrency in the repository
	// adapters (§5: mutual exclusion on InvoiceLineID for the
	// post-and-recalc pair).
	Version int `json:"version"`
}

// EligiblePayers builds the eligible-payer set V from the line's
// BillIns flags (spec §4.C: "Snapshot the set of eligible payers V from
// the line"). Patient is always eligible.
func (l *Line) EligiblePayers() payer.Set {
	s := payer.NewSet(payer.Patient)
	if l.BillIns1 && l.CustomerInsurance1ID != nil && !l.NopayIns1 {
		s = s.Add(payer.Ins1)
	}
	if l.BillIns2 && l.CustomerInsurance2ID != nil {
		s = s.Add(payer.Ins2)
	}
	if l.BillIns3 && l.CustomerInsurance3ID != nil {
		s = s.Add(payer.Ins3)
	}
	if l.BillIns4 && l.CustomerInsurance4ID != nil {
		s = s.Add(payer.Ins4)
	}
	return s
}

// CustomerInsuranceIDForSlot returns the policy ID snapshotted for slot
// (1..4), or nil.
func (l *Line) CustomerInsuranceIDForSlot(slot int) *string {
	switch slot {
	case 1:
		return l.CustomerInsurance1ID
	case 2:
		return l.CustomerInsurance2ID
	case 3:
		return l.CustomerInsurance3ID
	case 4:
		return l.CustomerInsurance4ID
	default:
		return nil
	}
}

// InsuranceCompanyIDForSlot returns the insurer ID snapshotted for slot
// (1..4), or nil.
func (l *Line) InsuranceCompanyIDForSlot(slot int) *string {
	switch slot {
	case 1:
		return l.InsuranceCompany1ID
	case 2:
		return l.InsuranceCompany2ID
	case 3:
		return l.InsuranceCompany3ID
	case 4:
		return l.InsuranceCompany4ID
	default:
		return nil
	}
}

// OwnerForCustomerInsuranceID resolves a ledger transaction's payer
// from its CustomerInsuranceID, per spec §4.C: matches against the four
// policy slots; a nil ID (or one matching none of them) is Patient.
func (l *Line) OwnerForCustomerInsuranceID(customerInsuranceID *string) payer.Type {
	if customerInsuranceID == nil {
		return payer.Patient
	}
	for slot := 1; slot <= 4; slot++ {
		id := l.CustomerInsuranceIDForSlot(slot)
		if id != nil && *id == *customerInsuranceID {
			return payer.FromSlot(slot)
		}
	}
	return payer.Patient
}

func (l *Line) Validate() error {
	if l.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if l.InvoiceID == "" {
		return ierr.NewValidationError("invoice_id", "is required")
	}
	computed := types.RoundMoney(l.BillableAmount.Sub(l.PaymentAmount).Sub(l.WriteoffAmount))
	if !types.RoundMoney(l.Balance).Equal(computed) {
		return ierr.NewValidationError("balance", "must equal billable - payment - writeoff")
	}
	isZero := types.BalanceClearsPayer(l.Balance)
	if isZero && l.CurrentPayer != payer.None {
		return ierr.NewValidationError("current_payer", "must be None when balance is below 0.01")
	}
	if !isZero && l.CurrentPayer == payer.None {
		return ierr.NewValidationError("current_payer", "must not be None when balance is 0.01 or more")
	}
	return nil
}
