// Package orderline holds the OrderLine aggregate: one billable line
// item on an Order, advanced month by month by the Invoice Generator.
package orderline

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// OrderLine is one line of an Order: a SaleRentType-governed schedule
// of recurring charges.
type OrderLine struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`

	SaleRentType types.SaleRentType `json:"sale_rent_type"`
	Frequency    types.Frequency    `json:"frequency"`

	// BillingMonth starts at 1 and advances by 1 each time the Invoice
	// Generator produces an invoice line from this order line (spec
	// §3: "BillingMonth (initialized to 1)").
	BillingMonth int `json:"billing_month"`

	DOSFrom time.Time  `json:"dos_from"`
	DOSTo   time.Time  `json:"dos_to"`
	EndDate *time.Time `json:"end_date,omitempty"`
	PickupDate *time.Time `json:"pickup_date,omitempty"`

	BillIns1 bool `json:"bill_ins_1"`
	BillIns2 bool `json:"bill_ins_2"`
	BillIns3 bool `json:"bill_ins_3"`
	BillIns4 bool `json:"bill_ins_4"`
	// NopayIns1 suppresses Ins1 eligibility even when BillIns1 is set
	// (spec §4.C: "bit Ins_k set iff BillIns_k=1 ∧ policy slot present
	// (∧ NopayIns1=0 for Ins1)").
	NopayIns1 bool `json:"nopay_ins_1"`

	AcceptAssignment bool `json:"accept_assignment"`

	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	BilledQuantity   decimal.Decimal `json:"billed_quantity"`
	DeliveryQuantity decimal.Decimal `json:"delivery_quantity"`
	OrderedConverter decimal.Decimal `json:"ordered_converter"`
	BilledConverter  decimal.Decimal `json:"billed_converter"`
	DeliveryConverter decimal.Decimal `json:"delivery_converter"`

	// BillablePrice is the per-unit "price" the §4.A Billable function
	// takes; AllowablePrice is the one the Allowable function takes.
	BillablePrice   decimal.Decimal `json:"billable_price"`
	AllowablePrice  decimal.Decimal `json:"allowable_price"`
	// SalePrice is only consulted by RentToPurchase month 10 (§4.A).
	SalePrice decimal.Decimal `json:"sale_price"`
	// FlatRate forces qty=1 in the §4.A Allowable/Billable functions.
	FlatRate bool `json:"flat_rate"`

	Taxable        bool            `json:"taxable"`
	TaxRatePercent decimal.Decimal `json:"tax_rate_percent"`

	Modifier1 string `json:"modifier_1"`
	Modifier2 string `json:"modifier_2"`
	Modifier3 string `json:"modifier_3"`
	Modifier4 string `json:"modifier_4"`

	AuthorizationExpiry *time.Time `json:"authorization_expiry,omitempty"`

	State  types.OrderLineState `json:"state"`
	Active bool                 `json:"active"`

	types.BaseModel
}

// Modifiers returns the four modifier slots as an array, the shape the
// §4.A InvoiceModifier primitive consumes.
func (l *OrderLine) Modifiers() [4]string {
	return [4]string{l.Modifier1, l.Modifier2, l.Modifier3, l.Modifier4}
}

// SetModifiers writes back the four modifier slots in one call.
func (l *OrderLine) SetModifiers(m [4]string) {
	l.Modifier1, l.Modifier2, l.Modifier3, l.Modifier4 = m[0], m[1], m[2], m[3]
}

// BillIns returns whether slot (1..4) is flagged for billing on this
// line.
func (l *OrderLine) BillIns(slot int) bool {
	switch slot {
	case 1:
		return l.BillIns1
	case 2:
		return l.BillIns2
	case 3:
		return l.BillIns3
	case 4:
		return l.BillIns4
	default:
		return false
	}
}

func (l *OrderLine) Validate() error {
	if l.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if l.OrderID == "" {
		return ierr.NewValidationError("order_id", "is required")
	}
	if l.BillingMonth <= 0 {
		return ierr.NewValidationError("billing_month", "must be normalized to >= 1 before persisting")
	}
	if l.DOSTo.Before(l.DOSFrom) {
		return ierr.NewValidationError("dos_to", "must not be before dos_from")
	}
	return nil
}
