package invoicegen

import (
	"github.com/ariesone/dme-billing-engine/internal/billing/schedule"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

// advance rolls ol forward by one billing month (spec §4.F step 4): the
// DOS span moves to the next period, modifier slots 1-2 are refreshed
// to the values just billed, the state closes out when the schedule
// says to, and the billing month counter increments. ol is mutated in
// place and also returned, so callers can use either form.
func advance(in Input, ol *orderline.OrderLine, billedModifiers [4]string) *orderline.OrderLine {
	nextFrom := schedule.GetNextDosFrom(ol.DOSFrom, ol.DOSTo, ol.Frequency)
	nextTo := schedule.GetNextDosTo(ol.DOSFrom, ol.DOSTo, ol.Frequency)

	mods := ol.Modifiers()
	closed := ol.PickupDate != nil ||
		(ol.EndDate != nil && !in.InvoiceDate.Before(*ol.EndDate)) ||
		schedule.OrderMustBeClosed(ol.SaleRentType, ol.BillingMonth, in.Order.DeliveryDate, ol.DOSFrom, mods)

	ol.DOSFrom = nextFrom
	ol.DOSTo = nextTo
	ol.Modifier1 = billedModifiers[0]
	ol.Modifier2 = billedModifiers[1]
	ol.BillingMonth++

	if closed {
		ol.State = types.OrderLineStateClosed
		invoiceDate := in.InvoiceDate
		ol.EndDate = &invoiceDate
	}

	return ol
}
