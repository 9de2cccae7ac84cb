// Package order holds the Order aggregate: the thing a customer
// ordered, which the Invoice Generator later turns into recurring
// invoice lines month by month via its OrderLines.
package order

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Order belongs to a Customer and snapshots the policy/diagnosis
// context every invoice generated from it will carry.
type Order struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`

	// Up to four policy slots, highest-ranked first by convention but
	// not required to be; the Invoice Generator and Recalculator both
	// resolve eligibility from OrderLine.BillIns1..4 against whichever
	// slot is non-nil here.
	CustomerInsurance1ID *string `json:"customer_insurance_1_id,omitempty"`
	CustomerInsurance2ID *string `json:"customer_insurance_2_id,omitempty"`
	CustomerInsurance3ID *string `json:"customer_insurance_3_id,omitempty"`
	CustomerInsurance4ID *string `json:"customer_insurance_4_id,omitempty"`

	ICD9Codes  []string `json:"icd9_codes,omitempty"`  // up to 4
	ICD10Codes []string `json:"icd10_codes,omitempty"` // up to 12

	DeliveryDate time.Time `json:"delivery_date"`
	Approved     bool      `json:"approved"`
	// DiscountPercent in [0,100]; applied by the Invoice Generator to
	// every derived line amount.
	DiscountPercent decimal.Decimal `json:"discount_percent"`

	LocationID string `json:"location_id,omitempty"`
	DoctorID   string `json:"doctor_id,omitempty"`
	FacilityID string `json:"facility_id,omitempty"`

	types.BaseModel
}

// PolicySlotID returns the CustomerInsurance ID configured for 1-based
// slot (1..4), or nil if that slot is unset.
func (o *Order) PolicySlotID(slot int) *string {
	switch slot {
	case 1:
		return o.CustomerInsurance1ID
	case 2:
		return o.CustomerInsurance2ID
	case 3:
		return o.CustomerInsurance3ID
	case 4:
		return o.CustomerInsurance4ID
	default:
		return nil
	}
}

// IsICD10 reports whether dosFrom falls on/after the ICD-10 cutover
// date used throughout §4.F/§4.G.
const ICD10CutoverRFC = "2015-10-01"

func ICD10Cutover() time.Time {
	t, _ := time.Parse("2006-01-02", ICD10CutoverRFC)
	return t
}

func IsICD10(dosFrom time.Time) bool {
	return !dosFrom.Before(ICD10Cutover())
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if o.CustomerID == "" {
		return ierr.NewValidationError("customer_id", "is required")
	}
	if len(o.ICD9Codes) > 4 {
		return ierr.NewValidationError("icd9_codes", "at most 4 codes allowed")
	}
	if len(o.ICD10Codes) > 12 {
		return ierr.NewValidationError("icd10_codes", "at most 12 codes allowed")
	}
	if o.DiscountPercent.IsNegative() || o.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewValidationError("discount_percent", "must be within [0, 100]")
	}
	return nil
}
