package service

import (
	"context"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/posting"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/idempotency"
	"github.com/ariesone/dme-billing-engine/internal/postgres"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

// PostPaymentRequest carries everything PostPayment needs beyond what
// it loads from storage. IdempotencyScope/IdempotencyParams are
// optional: leave IdempotencyScope empty to skip the outer dedup
// check entirely (the payment and submission posters already dedupe
// the ledger-conditional transaction kinds — adjust-allowable,
// deductible, contractual-writeoff — against PriorTransactions on
// their own; this guard additionally covers the unconditional
// Payment/Denied row a retried request would otherwise double-post).
type PostPaymentRequest struct {
	LineID             string
	InsuranceCompanyID *string
	TxDate             time.Time
	Extra              string
	Comments           string
	Options            []types.PostingOption
	PolicyBasis        *types.PolicyBasis
	Hardship           bool
	UserID             string

	IdempotencyScope  idempotency.Scope
	IdempotencyParams map[string]interface{}
}

// PostPayment runs the Payment Poster against the line's current
// ledger inside one transaction, retrying on errors.ErrVersionConflict
// (another writer updated the line between load and commit), and
// publishes InvoiceLineRecalculated once the write lands.
func (s *BillingService) PostPayment(ctx context.Context, req PostPaymentRequest) (*posting.PaymentOutput, error) {
	if dup, err := s.checkIdempotent(ctx, req.IdempotencyScope, req.IdempotencyParams); err != nil {
		return nil, err
	} else if dup {
		return nil, ierr.NewError("payment already posted").
			WithHintf("a payment request with this key was already processed").
			Mark(ierr.ErrIdempotent)
	}

	var out *posting.PaymentOutput
	err := postgres.RetryOnVersionConflict(ctx, s.db, s.logger, func(ctx context.Context) error {
		defer s.obs.RecoverPostingPanic(ctx, "AddPayment")

		line, err := s.repos.InvoiceLine.Get(ctx, req.LineID)
		if err != nil {
			return err
		}
		priorTxs, err := s.repos.Ledger.ListForLine(ctx, req.LineID)
		if err != nil {
			return err
		}

		out = posting.AddPayment(posting.PaymentInput{
			Line:               line,
			InsuranceCompanyID: req.InsuranceCompanyID,
			TxDate:             req.TxDate,
			Extra:              req.Extra,
			Comments:           req.Comments,
			Options:            req.Options,
			UserID:             req.UserID,
			PriorTransactions:  priorTxs,
			PolicyBasis:        req.PolicyBasis,
			Hardship:           req.Hardship,
		})
		if out.Result != posting.ResultSuccess {
			return ierr.NewError("payment posting rejected").
				WithHintf("%s", out.Result).
				Mark(ierr.ErrInvalidOperation)
		}

		for _, tx := range out.NewTransactions {
			if err := s.repos.Ledger.Append(ctx, tx); err != nil {
				return err
			}
		}
		if err := s.repos.InvoiceLine.Update(ctx, out.Line); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordIdempotent(ctx, req.IdempotencyScope, req.IdempotencyParams)
	s.publishRecalculated(ctx, out.Line)
	return out, nil
}

func (s *BillingService) checkIdempotent(ctx context.Context, scope idempotency.Scope, params map[string]interface{}) (bool, error) {
	if s.idem == nil || scope == "" {
		return false, nil
	}
	key := s.idemGen.GenerateKey(scope, params)
	return s.idem.Seen(ctx, scope, key)
}

func (s *BillingService) recordIdempotent(ctx context.Context, scope idempotency.Scope, params map[string]interface{}) {
	if s.idem == nil || scope == "" {
		return
	}
	key := s.idemGen.GenerateKey(scope, params)
	if err := s.idem.Record(ctx, scope, key); err != nil {
		s.logger.WithContext(ctx).Errorw("failed to record idempotency key", "scope", scope, "error", err)
	}
}

