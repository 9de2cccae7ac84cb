package service

import (
	"context"

	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/events"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

func (s *BillingService) publishRecalculated(ctx context.Context, line *invoiceline.Line) {
	if s.events == nil || line == nil {
		return
	}
	if err := s.events.Publish(ctx, events.NameInvoiceLineRecalculated, events.InvoiceLineRecalculated{
		InvoiceLineID: line.ID,
		CurrentPayer:  line.CurrentPayer.String(),
		Balance:       line.Balance.String(),
	}); err != nil {
		s.logger.WithContext(ctx).Errorw("failed to publish InvoiceLineRecalculated", "invoice_line_id", line.ID, "error", err)
	}
}

func (s *BillingService) publishAdvanced(ctx context.Context, ol *orderline.OrderLine) {
	if s.events == nil || ol == nil {
		return
	}
	if err := s.events.Publish(ctx, events.NameOrderLineAdvanced, events.OrderLineAdvanced{
		OrderLineID:  ol.ID,
		BillingMonth: ol.BillingMonth,
	}); err != nil {
		s.logger.WithContext(ctx).Errorw("failed to publish OrderLineAdvanced", "order_line_id", ol.ID, "error", err)
	}
	if ol.State == types.OrderLineStateClosed {
		s.publishClosed(ctx, ol.ID, "end of schedule")
	}
}

func (s *BillingService) publishClosed(ctx context.Context, orderLineID, reason string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.NameOrderLineClosed, events.OrderLineClosed{
		OrderLineID: orderLineID,
		Reason:      reason,
	}); err != nil {
		s.logger.WithContext(ctx).Errorw("failed to publish OrderLineClosed", "order_line_id", orderLineID, "error", err)
	}
}
