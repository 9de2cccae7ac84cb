package service

import (
	"context"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/posting"
	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/postgres"
)

// PostAutoSubmit runs the 835-driven auto-submit path: one Auto Submit
// transaction per (line, insurer), rejected as a duplicate by the
// poster's own ledger scan if one already exists for this pair. No
// outer idempotency check: the in-ledger dedup already covers exactly
// the case a retried 835 batch would hit.
func (s *BillingService) PostAutoSubmit(ctx context.Context, lineID string, insuranceCompanyID *string, txDate time.Time, userID string) (*posting.SubmissionOutput, error) {
	var out *posting.SubmissionOutput
	err := postgres.RetryOnVersionConflict(ctx, s.db, s.logger, func(ctx context.Context) error {
		defer s.obs.RecoverPostingPanic(ctx, "AddAutoSubmit")

		line, err := s.repos.InvoiceLine.Get(ctx, lineID)
		if err != nil {
			return err
		}
		priorTxs, err := s.repos.Ledger.ListForLine(ctx, lineID)
		if err != nil {
			return err
		}

		out = posting.AddAutoSubmit(line, priorTxs, insuranceCompanyID, txDate, userID)
		if out.Result != posting.ResultSuccess {
			return ierr.NewError("auto submit rejected").
				WithHintf("%s", out.Result).
				Mark(ierr.ErrInvalidOperation)
		}
		for _, tx := range out.NewTransactions {
			if err := s.repos.Ledger.Append(ctx, tx); err != nil {
				return err
			}
		}
		return s.repos.InvoiceLine.Update(ctx, out.Line)
	})
	if err != nil {
		return nil, err
	}
	s.publishRecalculated(ctx, out.Line)
	return out, nil
}

// ReflagInvoiceLines runs posting.Reflag over every line belonging to
// invoiceID, persisting each line whose current payer actually had a
// Voided Submission appended.
func (s *BillingService) ReflagInvoiceLines(ctx context.Context, invoiceID string, txDate time.Time, userID string) ([]*posting.SubmissionOutput, error) {
	var outs []*posting.SubmissionOutput
	err := postgres.RetryOnVersionConflict(ctx, s.db, s.logger, func(ctx context.Context) error {
		defer s.obs.RecoverPostingPanic(ctx, "Reflag")

		lines, err := s.repos.InvoiceLine.ListForInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		txsByLine := map[string][]*ledger.Transaction{}
		for _, line := range lines {
			txs, err := s.repos.Ledger.ListForLine(ctx, line.ID)
			if err != nil {
				return err
			}
			txsByLine[line.ID] = txs
		}

		outs = posting.Reflag(lines, txsByLine, txDate, userID)
		for _, o := range outs {
			for _, tx := range o.NewTransactions {
				if err := s.repos.Ledger.Append(ctx, tx); err != nil {
					return err
				}
			}
			if err := s.repos.InvoiceLine.Update(ctx, o.Line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, o := range outs {
		s.publishRecalculated(ctx, o.Line)
	}
	return outs, nil
}
