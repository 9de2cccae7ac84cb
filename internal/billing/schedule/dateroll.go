package schedule

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/types"
)

// lastDayOfMonth returns the last calendar day of d's month, at
// midnight, in d's location.
func lastDayOfMonth(d time.Time) time.Time {
	firstOfNextMonth := time.Date(d.Year(), d.Month()+1, 1, 0, 0, 0, 0, d.Location())
	return firstOfNextMonth.AddDate(0, 0, -1)
}

// addPeriod advances d by exactly one period of freq. CalendarMonthly
// snaps to the last day of the following month rather than adding a
// literal 30 days, so short months don't drift the billing cycle.
func addPeriod(d time.Time, freq types.Frequency) time.Time {
	switch freq {
	case types.FrequencyDaily:
		return d.AddDate(0, 0, 1)
	case types.FrequencyWeekly:
		return d.AddDate(0, 0, 7)
	case types.FrequencyMonthly:
		return d.AddDate(0, 1, 0)
	case types.FrequencyCalendarMonthly:
		return lastDayOfMonth(d.AddDate(0, 1, 0))
	case types.FrequencyQuarterly:
		return d.AddDate(0, 3, 0)
	case types.FrequencySemiAnnually:
		return d.AddDate(0, 6, 0)
	case types.FrequencyAnnually:
		return d.AddDate(0, 12, 0)
	case types.FrequencyOneTime, types.FrequencyCustom:
		return d
	default:
		return d
	}
}

// GetNextDosFrom returns the first day of the period following
// [dosFrom, dosTo]. For every frequency this is simply the day after
// dosTo; CalendarMonthly additionally snaps to the 1st of the
// following month so consecutive calendar-month spans never overlap.
func GetNextDosFrom(dosFrom, dosTo time.Time, freq types.Frequency) time.Time {
	if freq == types.FrequencyCalendarMonthly {
		return time.Date(dosTo.Year(), dosTo.Month()+1, 1, 0, 0, 0, 0, dosTo.Location())
	}
	return dosTo.AddDate(0, 0, 1)
}

// GetNewDosTo returns the natural end of a period starting at dosFrom,
// given freq — the date-roll primitive GetNextDosTo and the invoice
// generator's per-line period bound both derive from it.
func GetNewDosTo(dosFrom time.Time, freq types.Frequency) time.Time {
	switch freq {
	case types.FrequencyCalendarMonthly:
		return lastDayOfMonth(dosFrom)
	case types.FrequencyOneTime, types.FrequencyCustom:
		return dosFrom
	default:
		return addPeriod(dosFrom, freq).AddDate(0, 0, -1)
	}
}

// GetNextDosTo returns the end of the period following [dosFrom, dosTo].
func GetNextDosTo(dosFrom, dosTo time.Time, freq types.Frequency) time.Time {
	return GetNewDosTo(GetNextDosFrom(dosFrom, dosTo, freq), freq)
}

// GetPeriodEnd is an alias for GetNewDosTo, named to match the
// companion "clamped" variant GetPeriodEnd2.
func GetPeriodEnd(dosFrom time.Time, freq types.Frequency) time.Time {
	return GetNewDosTo(dosFrom, freq)
}

// GetPeriodEnd2 clamps GetPeriodEnd by pickupDate when the equipment
// was picked up before the period would otherwise end.
func GetPeriodEnd2(dosFrom time.Time, freq types.Frequency, pickupDate *time.Time) time.Time {
	end := GetPeriodEnd(dosFrom, freq)
	if pickupDate != nil && pickupDate.Before(end) {
		return *pickupDate
	}
	return end
}
