package schedule

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/types"
)

// modAt returns mods[slot] using the 1..4 slot numbering the rest of
// this package uses, or "" for an out-of-range slot.
func modAt(mods [4]string, slot int) string {
	if slot < 1 || slot > 4 {
		return ""
	}
	return mods[slot-1]
}

// InvoiceModifier computes the HCPCS modifier for one of an invoice
// line's four modifier slots. CappedRental and ParentalCappedRental
// carry the Medicare capped-rental modifier cycle (RR/MS, KH/KI/KJ/KX,
// and the two KX/blank slots gated by the 2006 rule change); every
// other sale/rent type, and slots outside that cycle, simply echo the
// order line's existing modifier.
func InvoiceModifier(deliveryDate time.Time, t types.SaleRentType, m int, slot int, mods [4]string) string {
	m = NormalizeMonth(m)

	if t != types.SaleRentCappedRental && t != types.SaleRentParentalCappedRental {
		return modAt(mods, slot)
	}

	cycle := isCycleMonth(m)

	switch slot {
	case 1:
		if cycle {
			return "MS"
		}
		return "RR"

	case 2:
		switch {
		case m == 1:
			return "KH"
		case m >= 2 && m <= 3:
			return "KI"
		case m >= 4 && m <= 15:
			return "KJ"
		case cycle && modAt(mods, 4) == "KX":
			return "KX"
		default:
			return ""
		}

	case 3:
		if deliveryDate.Before(cutover2006) {
			if cycle {
				return ""
			}
			return modAt(mods, 3)
		}
		if m >= 12 {
			return "KX"
		}
		return modAt(mods, 3)

	case 4:
		if deliveryDate.Before(cutover2006) {
			if cycle {
				return ""
			}
			return modAt(mods, 4)
		}
		if m >= 12 {
			return ""
		}
		return modAt(mods, 4)

	default:
		return modAt(mods, slot)
	}
}
