package invoicegen

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/schedule"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

// qualifies reports whether ol belongs in this billing run: active, in
// its current billing-month window, MIR-clear, flag-matching, not
// skipped by either schedule predicate, and worth a non-zero amount
// (spec §4.F step 1).
func qualifies(in Input, ol *orderline.OrderLine) bool {
	if !ol.Active || ol.State == types.OrderLineStateClosed {
		return false
	}
	if ol.BillingMonth != in.BillingMonth {
		return false
	}
	if !flagsMatch(in.BillingFlags, ol) {
		return false
	}
	if !inWindow(in.InvoiceDate, ol) {
		return false
	}
	if in.MIRClear != nil && !in.MIRClear(ol) {
		return false
	}

	mods := ol.Modifiers()
	if schedule.OrderMustBeSkipped(ol.SaleRentType, ol.BillingMonth, in.Order.DeliveryDate, ol.DOSFrom, mods) {
		return false
	}
	if schedule.InvoiceMustBeSkipped(ol.SaleRentType, ol.BillingMonth, in.Order.DeliveryDate, ol.DOSFrom, mods) {
		return false
	}

	amounts := computeAmounts(in.Order, ol)
	return types.IsNonZeroMoney(amounts.Billable)
}

// flagsMatch reports whether ol's own billing-relevant flags match the
// requested billingFlags mask bit for bit (spec §6 billingFlags).
func flagsMatch(flags Flags, ol *orderline.OrderLine) bool {
	if flags.has(FlagIns1) != ol.BillIns1 {
		return false
	}
	if flags.has(FlagIns2) != ol.BillIns2 {
		return false
	}
	if flags.has(FlagIns3) != ol.BillIns3 {
		return false
	}
	if flags.has(FlagIns4) != ol.BillIns4 {
		return false
	}
	if flags.has(FlagAcceptAssignment) != ol.AcceptAssignment {
		return false
	}
	return flags.has(FlagHasEndDate) == (ol.EndDate != nil)
}

// inWindow reports whether invoiceDate falls within ol's current DOS
// span, the "in-window" qualifier from spec §4.F step 1: a line is
// only due for billing once its period has actually started, and not
// after the period already closed out.
func inWindow(invoiceDate time.Time, ol *orderline.OrderLine) bool {
	if invoiceDate.Before(ol.DOSFrom) {
		return false
	}
	return !invoiceDate.After(ol.DOSTo)
}
