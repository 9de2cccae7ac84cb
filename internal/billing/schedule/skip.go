package schedule

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/types"
)

func isBPBRBU(mod string) bool {
	return mod == "BP" || mod == "BR" || mod == "BU"
}

// InvoiceMustBeSkipped decides whether month m of order line t should
// be omitted from invoice generation entirely — distinct from
// OrderMustBeSkipped, which additionally governs whether the order
// line itself advances past this month.
func InvoiceMustBeSkipped(t types.SaleRentType, m int, deliveryDate, dosFrom time.Time, mods [4]string) bool {
	m = NormalizeMonth(m)

	switch t {
	case types.SaleRentOneTimeSale, types.SaleRentReOccurringSale, types.SaleRentOneTimeRental:
		return m > 1

	case types.SaleRentMedicareOxygenRental:
		if deliveryDate.Before(cutover2006) {
			return !dosFrom.Before(cutover2009) && m > 36
		}
		return m > 36

	case types.SaleRentMonthlyRental:
		return false

	case types.SaleRentRentToPurchase:
		return m > 10

	case types.SaleRentCappedRental, types.SaleRentParentalCappedRental:
		if deliveryDate.Before(cutover2006) {
			switch {
			case m <= 15:
				return false
			case m <= 21:
				return true
			default:
				return !isCycleMonth(m)
			}
		}
		return m > 13

	default:
		return false
	}
}

// OrderMustBeSkipped governs whether the order line advances past
// month m without generating an invoice line for it. It agrees with
// InvoiceMustBeSkipped everywhere except the pre-2006 capped-rental
// cycle, where months 12..15 are additionally skipped when modifier 3
// carries one of the rental-continuation codes BP/BR/BU.
func OrderMustBeSkipped(t types.SaleRentType, m int, deliveryDate, dosFrom time.Time, mods [4]string) bool {
	m = NormalizeMonth(m)

	if (t == types.SaleRentCappedRental || t == types.SaleRentParentalCappedRental) && deliveryDate.Before(cutover2006) {
		if m >= 12 && m <= 15 && isBPBRBU(modAt(mods, 3)) {
			return true
		}
	}

	return InvoiceMustBeSkipped(t, m, deliveryDate, dosFrom, mods)
}

// OrderMustBeClosed decides whether the order line's lifecycle should
// transition to Closed at month m.
func OrderMustBeClosed(t types.SaleRentType, m int, deliveryDate, dosFrom time.Time, mods [4]string) bool {
	m = NormalizeMonth(m)

	switch t {
	case types.SaleRentOneTimeSale, types.SaleRentReOccurringSale, types.SaleRentOneTimeRental:
		return m >= 1

	case types.SaleRentMedicareOxygenRental:
		if deliveryDate.Before(cutover2006) {
			return !dosFrom.Before(cutover2009) && m >= 60
		}
		return m >= 36

	case types.SaleRentMonthlyRental:
		return false

	case types.SaleRentRentToPurchase:
		return m >= 10

	case types.SaleRentCappedRental, types.SaleRentParentalCappedRental:
		if deliveryDate.Before(cutover2006) {
			return (m == 12 || m == 13) && modAt(mods, 3) == "BP"
		}
		return m >= 13

	default:
		return false
	}
}
