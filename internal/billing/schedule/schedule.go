// Package schedule implements the rental schedule primitives: pure,
// total functions over (SaleRentType, BillingMonth, DeliveryDate,
// prices, modifiers, frequencies) that decide how much a given
// OrderLine-month is worth, which modifiers it carries, whether it
// should be skipped or closed, and how its DOS span rolls forward.
//
// None of these functions touch a repository or the clock; callers
// (the invoice generator, mostly) own all I/O.
package schedule

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// cutover2006 is the date Medicare's capped-rental and oxygen-rental
// modifier/close rules changed. cutover2009 is the later date the
// 36-month oxygen equipment cap took full effect.
var (
	cutover2006 = time.Date(2006, time.January, 1, 0, 0, 0, 0, time.UTC)
	cutover2009 = time.Date(2009, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// NormalizeMonth applies the "BillingMonth ≤ 0 is normalized to 1" rule
// every primitive in this package depends on.
func NormalizeMonth(m int) int {
	if m <= 0 {
		return 1
	}
	return m
}

func isCycleMonth(m int) bool {
	return m >= 22 && (m-22)%6 == 0
}

// Allowable returns the payer-specific allowable amount for month m of
// an OrderLine of type t, given its per-unit price, billed quantity,
// and (for RentToPurchase) sale price. flat collapses qty to 1.
func Allowable(t types.SaleRentType, m int, price, qty, salePrice decimal.Decimal, flat bool) decimal.Decimal {
	m = NormalizeMonth(m)
	if flat {
		qty = decimal.NewFromInt(1)
	}

	switch t {
	case types.SaleRentOneTimeSale, types.SaleRentReOccurringSale, types.SaleRentOneTimeRental:
		if m == 1 {
			return price.Mul(qty)
		}
		return decimal.Zero

	case types.SaleRentMedicareOxygenRental, types.SaleRentMonthlyRental:
		return price.Mul(qty)

	case types.SaleRentRentToPurchase:
		switch {
		case m <= 9:
			return price.Mul(qty)
		case m == 10:
			return salePrice.Sub(price.Mul(decimal.NewFromInt(9))).Mul(qty)
		default:
			return decimal.Zero
		}

	case types.SaleRentCappedRental:
		switch {
		case m <= 3:
			return price.Mul(qty)
		case m <= 15:
			return price.Mul(decimal.NewFromFloat(0.75)).Mul(qty)
		case isCycleMonth(m):
			return price.Mul(qty)
		default:
			return decimal.Zero
		}

	case types.SaleRentParentalCappedRental:
		if m <= 15 || isCycleMonth(m) {
			return price.Mul(qty)
		}
		return decimal.Zero

	default:
		return decimal.Zero
	}
}

// Billable returns the nominal (non-payer-specific) charge for month m.
// It agrees with Allowable everywhere except the two capped-rental
// variants, which bill the full price through month 15 — the 75%
// haircut is an allowable-only phase.
func Billable(t types.SaleRentType, m int, price, qty, salePrice decimal.Decimal, flat bool) decimal.Decimal {
	m = NormalizeMonth(m)
	if flat {
		qty = decimal.NewFromInt(1)
	}

	switch t {
	case types.SaleRentCappedRental, types.SaleRentParentalCappedRental:
		if m <= 15 || isCycleMonth(m) {
			return price.Mul(qty)
		}
		return decimal.Zero

	default:
		return Allowable(t, m, price, qty, salePrice, flat)
	}
}
