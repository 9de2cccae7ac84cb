package schedule

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// Multiplier produces the per-period count or fraction used to scale
// both prices and quantities for one invoice line. Every sale/rent
// type and frequency pair bills exactly one unit per generated line —
// the sole exception is MonthlyRental billed Daily, which prorates by
// the exact number of days between fromDate and the next period
// start, clipped by pickupDate when the equipment was returned early.
func Multiplier(t types.SaleRentType, freq types.Frequency, fromDate, nextPeriodStart time.Time, pickupDate *time.Time) decimal.Decimal {
	if t != types.SaleRentMonthlyRental || freq != types.FrequencyDaily {
		return decimal.NewFromInt(1)
	}

	end := nextPeriodStart
	if pickupDate != nil && pickupDate.Before(end) {
		end = *pickupDate
	}

	days := int64(end.Sub(fromDate).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(days)
}

// AmountMultiplier scales AllowableAmount/BillableAmount/Taxes at
// invoice-line generation time (spec's InvoiceLine formulas, 4.F).
func AmountMultiplier(t types.SaleRentType, freq types.Frequency, fromDate, nextPeriodStart time.Time, pickupDate *time.Time) decimal.Decimal {
	return Multiplier(t, freq, fromDate, nextPeriodStart, pickupDate)
}

// QuantityMultiplier scales BilledQuantity into the invoice line's
// Quantity at generation time. Kept as its own entry point — distinct
// from AmountMultiplier — because the two scale different fields even
// though they share one formula today.
func QuantityMultiplier(t types.SaleRentType, freq types.Frequency, fromDate, nextPeriodStart time.Time, pickupDate *time.Time) decimal.Decimal {
	return Multiplier(t, freq, fromDate, nextPeriodStart, pickupDate)
}
