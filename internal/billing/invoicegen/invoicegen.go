// Package invoicegen implements the Invoice Generator (spec §4.F): it
// turns one due Order, for one billing month, into an Invoice plus one
// InvoiceLine per qualifying OrderLine, and advances those OrderLines
// to their next billing month.
//
// Like schedule and recalc, this package is pure: it takes the Order,
// its OrderLines, and the resolved Policy snapshots as plain
// parameters and returns new/updated aggregates. internal/service owns
// loading those from repositories and persisting the result inside one
// transaction.
package invoicegen

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/posting"
	"github.com/ariesone/dme-billing-engine/internal/billing/recalc"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoice"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Flags is the 6-bit billingFlags mask from spec §6.
type Flags uint8

const (
	FlagIns1             Flags = 1
	FlagIns2             Flags = 2
	FlagIns3             Flags = 4
	FlagIns4             Flags = 8
	FlagAcceptAssignment Flags = 16
	FlagHasEndDate       Flags = 32
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Deposit is a pre-paid amount against one order line, converted into
// a Payment transaction on that line's first invoice line (spec §4.F
// step 5, billingMonth=1 only).
type Deposit struct {
	OrderLineID string
	Amount      decimal.Decimal
}

// Input is everything Generate needs, already resolved by the caller.
type Input struct {
	Order        *order.Order
	OrderLines   []*orderline.OrderLine
	BillingMonth int
	BillingFlags Flags
	InvoiceDate  time.Time

	// Policies resolves a policy slot ID (Order.CustomerInsuranceNID)
	// to its insurer, for the InvoiceLine's InsuranceCompanyNID
	// snapshot.
	Policies map[string]*policy.Policy

	// MIRClear reports whether ol has no outstanding MIR defects; nil
	// means every line is treated as clear (spec's MIR gate is wired
	// in by internal/service once internal/billing/mir is attached).
	MIRClear func(ol *orderline.OrderLine) bool

	// Deposits converts into Payment transactions on month 1 only.
	Deposits []Deposit

	UserID string
}

// Output is the generator's effect.
type Output struct {
	Invoice *invoice.Invoice
	// Lines holds one InvoiceLine per qualifying OrderLine, in the same
	// order as Input.OrderLines. A deposit-bearing line, if any, is the
	// post-AddPayment projection, not the bare freshly-created line.
	Lines []*invoiceline.Line
	// AdvancedOrderLines holds every qualifying OrderLine after its
	// DOS span, modifiers, state, and billing month have been rolled
	// forward.
	AdvancedOrderLines []*orderline.OrderLine
	// DepositPayments holds the poster output for each converted
	// deposit, in the order of the qualifying order lines they apply to.
	DepositPayments []*posting.PaymentOutput
}

// Generate runs the full 4.F algorithm for one (order, billingMonth).
// It returns an empty Output (nil Invoice) when no order line
// qualifies, per step 2 ("if ≥1 qualifying line").
func Generate(in Input) *Output {
	qualifying := make([]*orderline.OrderLine, 0, len(in.OrderLines))
	icd10Count := 0
	for _, ol := range in.OrderLines {
		if !qualifies(in, ol) {
			continue
		}
		qualifying = append(qualifying, ol)
		if order.IsICD10(ol.DOSFrom) {
			icd10Count++
		}
	}

	if len(qualifying) == 0 {
		return &Output{}
	}

	inv := newInvoice(in, icd10Count, len(qualifying))

	out := &Output{Invoice: inv}
	depositByOrderLine := make(map[string]decimal.Decimal, len(in.Deposits))
	for _, d := range in.Deposits {
		depositByOrderLine[d.OrderLineID] = d.Amount
	}

	for _, ol := range qualifying {
		amounts := computeAmounts(in.Order, ol)

		line := &invoiceline.Line{
			ID:          types.GenerateID(),
			InvoiceID:   inv.ID,
			OrderLineID: ol.ID,

			BillableAmount:  amounts.Billable,
			AllowableAmount: amounts.Allowable,
			Taxes:           amounts.Taxes,
			Quantity:        amounts.Quantity,

			Modifier1: amounts.Modifiers[0],
			Modifier2: amounts.Modifiers[1],
			Modifier3: amounts.Modifiers[2],
			Modifier4: amounts.Modifiers[3],

			BillIns1:  ol.BillIns1,
			BillIns2:  ol.BillIns2,
			BillIns3:  ol.BillIns3,
			BillIns4:  ol.BillIns4,
			NopayIns1: ol.NopayIns1,

			Hardship: false,
		}
		snapshotPolicySlots(line, in)

		// No ledger rows exist yet; run the line through the
		// Recalculator with an empty ledger to get its correct initial
		// projection (Balance = Billable, CurrentPayer = the first
		// eligible payer) rather than duplicating that selection rule
		// here.
		line = recalc.Recalculate(line, nil)

		if in.BillingMonth == 1 {
			if amount, ok := depositByOrderLine[ol.ID]; ok {
				result := posting.AddPayment(posting.PaymentInput{
					Line:     line,
					TxDate:   in.InvoiceDate,
					Extra:    depositExtra(amount),
					Comments: "Pre-paid deposit",
					UserID:   in.UserID,
				})
				out.DepositPayments = append(out.DepositPayments, result)
				if result.Line != nil {
					line = result.Line
				}
			}
		}

		out.Lines = append(out.Lines, line)
		out.AdvancedOrderLines = append(out.AdvancedOrderLines, advance(in, ol, amounts.Modifiers))
	}

	return out
}

func newInvoice(in Input, icd10Count, qualifyingCount int) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:           types.GenerateID(),
		CustomerID:   in.Order.CustomerID,
		OrderID:      in.Order.ID,
		BillingMonth: in.BillingMonth,
		InvoiceDate:  in.InvoiceDate,
		Status:       types.InvoiceStatusDraft,

		CustomerInsurance1ID: in.Order.CustomerInsurance1ID,
		CustomerInsurance2ID: in.Order.CustomerInsurance2ID,
		CustomerInsurance3ID: in.Order.CustomerInsurance3ID,
		CustomerInsurance4ID: in.Order.CustomerInsurance4ID,
	}

	allICD10 := icd10Count == qualifyingCount
	anyICD10 := icd10Count > 0
	if anyICD10 {
		inv.ICD10Codes = in.Order.ICD10Codes
	}
	if !allICD10 {
		inv.ICD9Codes = in.Order.ICD9Codes
	}
	return inv
}

func depositExtra(amount decimal.Decimal) string {
	return `{"Paid":"` + types.RoundMoney(amount).String() + `"}`
}
