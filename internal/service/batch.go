package service

import (
	"context"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/invoicegen"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
)

// RunDueInvoiceGeneration walks every approved order, builds one
// GenerationRequest per order whose due order lines share a billing
// month, and runs them through GenerateInvoices. It is the scheduled
// batch cmd/server ticks on its own interval — the concrete thing
// SPEC_FULL.md's Invoice Generator component exists to be invoked by,
// rather than a constructed-and-discarded service with no caller.
//
// An order whose due lines disagree on BillingMonth (a prior partial
// run advanced some but not all of them) is skipped for this pass: it
// picks up again once every line shares a month, by design — this
// batch never guesses which counter to bill.
func (s *BillingService) RunDueInvoiceGeneration(ctx context.Context, asOf time.Time, maxConcurrency int) ([]GenerationResult, error) {
	orders, err := s.repos.Order.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	reqs := make([]GenerationRequest, 0, len(orders))
	for _, ord := range orders {
		lines, err := s.repos.OrderLine.ListDueForOrder(ctx, ord.ID)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			continue
		}

		billingMonth := lines[0].BillingMonth
		uniform := true
		for _, l := range lines[1:] {
			if l.BillingMonth != billingMonth {
				uniform = false
				break
			}
		}
		if !uniform {
			continue
		}

		reqs = append(reqs, GenerationRequest{
			OrderID:      ord.ID,
			BillingMonth: billingMonth,
			BillingFlags: flagsForOrder(ord),
			InvoiceDate:  asOf,
			UserID:       "scheduler",
		})
	}

	return s.GenerateInvoices(ctx, reqs, maxConcurrency), nil
}

// flagsForOrder bills every policy slot the order actually has
// configured, one bit per non-nil CustomerInsuranceNID.
func flagsForOrder(ord *order.Order) invoicegen.Flags {
	var flags invoicegen.Flags
	if ord.CustomerInsurance1ID != nil {
		flags |= invoicegen.FlagIns1
	}
	if ord.CustomerInsurance2ID != nil {
		flags |= invoicegen.FlagIns2
	}
	if ord.CustomerInsurance3ID != nil {
		flags |= invoicegen.FlagIns3
	}
	if ord.CustomerInsurance4ID != nil {
		flags |= invoicegen.FlagIns4
	}
	return flags
}
