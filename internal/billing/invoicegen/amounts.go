package invoicegen

import (
	"github.com/ariesone/dme-billing-engine/internal/billing/schedule"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// amounts is the full set of §4.A-derived figures for one OrderLine's
// current billing month.
type amounts struct {
	Billable  decimal.Decimal
	Allowable decimal.Decimal
	Taxes     decimal.Decimal
	Quantity  decimal.Decimal
	Modifiers [4]string
}

// computeAmounts implements the InvoiceLine formulas of spec §4.F step
// 3, built entirely from the §4.A schedule primitives.
func computeAmounts(ord *order.Order, ol *orderline.OrderLine) amounts {
	m := ol.BillingMonth
	nextPeriodStart := schedule.GetNextDosFrom(ol.DOSFrom, ol.DOSTo, ol.Frequency)
	amountMult := schedule.AmountMultiplier(ol.SaleRentType, ol.Frequency, ol.DOSFrom, nextPeriodStart, ol.PickupDate)
	quantityMult := schedule.QuantityMultiplier(ol.SaleRentType, ol.Frequency, ol.DOSFrom, nextPeriodStart, ol.PickupDate)

	allowableBase := schedule.Allowable(ol.SaleRentType, m, ol.AllowablePrice, ol.BilledQuantity, ol.SalePrice, ol.FlatRate)
	billableBase := schedule.Billable(ol.SaleRentType, m, ol.BillablePrice, ol.BilledQuantity, ol.SalePrice, ol.FlatRate)

	discountFactor := decimal.NewFromInt(1).Sub(ord.DiscountPercent.Div(hundred))
	scaledAllowable := discountFactor.Mul(amountMult).Mul(allowableBase)

	var billable, taxes decimal.Decimal
	if ol.Taxable {
		taxFraction := ol.TaxRatePercent.Div(hundred)
		billable = scaledAllowable.Mul(decimal.NewFromInt(1).Add(taxFraction))
		taxes = scaledAllowable.Mul(taxFraction)
	} else {
		billable = discountFactor.Mul(amountMult).Mul(billableBase)
		taxes = decimal.Zero
	}

	var mods [4]string
	for slot := 1; slot <= 4; slot++ {
		mods[slot-1] = schedule.InvoiceModifier(ord.DeliveryDate, ol.SaleRentType, m, slot, ol.Modifiers())
	}

	return amounts{
		Billable:  types.RoundMoney(billable),
		Allowable: types.RoundMoney(scaledAllowable),
		Taxes:     types.RoundMoney(taxes),
		Quantity:  ol.BilledQuantity.Mul(quantityMult),
		Modifiers: mods,
	}
}

// snapshotPolicySlots copies the order's four policy-slot IDs, and
// each slot's resolved insurer, onto line — the CustomerInsuranceNID /
// InsuranceCompanyNID pairs the Recalculator and posters key off.
func snapshotPolicySlots(line *invoiceline.Line, in Input) {
	slots := [4]*string{
		in.Order.CustomerInsurance1ID,
		in.Order.CustomerInsurance2ID,
		in.Order.CustomerInsurance3ID,
		in.Order.CustomerInsurance4ID,
	}

	assignSlot := func(slot int, id *string) {
		var company *string
		if id != nil {
			if p, ok := in.Policies[*id]; ok {
				c := p.InsuranceCompanyID
				company = &c
			}
		}
		switch slot {
		case 1:
			line.CustomerInsurance1ID, line.InsuranceCompany1ID = id, company
		case 2:
			line.CustomerInsurance2ID, line.InsuranceCompany2ID = id, company
		case 3:
			line.CustomerInsurance3ID, line.InsuranceCompany3ID = id, company
		case 4:
			line.CustomerInsurance4ID, line.InsuranceCompany4ID = id, company
		}
	}

	for slot, id := range slots {
		assignSlot(slot+1, id)
	}
}
