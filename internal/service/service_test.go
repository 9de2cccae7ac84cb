package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariesone/dme-billing-engine/internal/billing/posting"
	"github.com/ariesone/dme-billing-engine/internal/cache"
	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/idempotency"
	"github.com/ariesone/dme-billing-engine/internal/logger"
	"github.com/ariesone/dme-billing-engine/internal/observability"
	"github.com/ariesone/dme-billing-engine/internal/repository/memory"
)

func fixedDate() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*BillingService, *memory.InvoiceLineRepository, *memory.LedgerRepository) {
	t.Helper()
	log, err := logger.New()
	require.NoError(t, err)

	lines := memory.NewInvoiceLineRepository()
	ledger := memory.NewLedgerRepository()

	repos := Repositories{
		Customer:    memory.NewCustomerRepository(),
		Policy:      memory.NewPolicyRepository(),
		Order:       memory.NewOrderRepository(),
		OrderLine:   memory.NewOrderLineRepository(),
		Invoice:     memory.NewInvoiceRepository(),
		InvoiceLine: lines,
		Ledger:      ledger,
	}

	obs := observability.NewService(config.GetDefaultConfig(), log)
	svc := NewBillingService(repos, memory.NewTxRunner(), nil, nil, obs, log, nil)
	return svc, lines, ledger
}

func testLine() *invoiceline.Line {
	ins1 := "ci-1"
	carrier1 := "ic-1"
	return &invoiceline.Line{
		ID:                   "line-1",
		InvoiceID:            "inv-1",
		BillableAmount:       decimal.RequireFromString("100.00"),
		AllowableAmount:      decimal.RequireFromString("100.00"),
		BillIns1:             true,
		CustomerInsurance1ID: &ins1,
		InsuranceCompany1ID:  &carrier1,
	}
}

func TestPostPayment_PersistsLedgerAndLine(t *testing.T) {
	svc, lines, ledger := newTestService(t)
	ctx := context.Background()

	require.NoError(t, lines.Create(ctx, testLine()))
	carrier1 := "ic-1"

	out, err := svc.PostPayment(ctx, PostPaymentRequest{
		LineID:             "line-1",
		InsuranceCompanyID: &carrier1,
		Extra:              `{"Paid": "100.00"}`,
		UserID:             "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, posting.ResultSuccess, out.Result)

	persisted, err := lines.Get(ctx, "line-1")
	require.NoError(t, err)
	assert.True(t, persisted.Balance.IsZero())
	assert.Equal(t, 1, persisted.Version)

	txs, err := ledger.ListForLine(ctx, "line-1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestPostPayment_RejectedPosting_ReturnsInvalidOperation(t *testing.T) {
	svc, lines, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, lines.Create(ctx, testLine()))

	unknown := "not-a-carrier"
	_, err := svc.PostPayment(ctx, PostPaymentRequest{
		LineID:             "line-1",
		InsuranceCompanyID: &unknown,
		Extra:              `{"Paid": "1.00"}`,
		UserID:             "u1",
	})
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}

func TestPostPayment_IdempotentRetry_RejectsSecondAttempt(t *testing.T) {
	svc, lines, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, lines.Create(ctx, testLine()))
	svc.idem = idempotency.NewCacheStore(cache.NewInMemoryCache(config.GetDefaultConfig()), 0)

	carrier1 := "ic-1"
	req := PostPaymentRequest{
		LineID:             "line-1",
		InsuranceCompanyID: &carrier1,
		Extra:              `{"Paid": "100.00"}`,
		UserID:             "u1",
		IdempotencyScope:   idempotency.ScopeCheckNumberGuid,
		IdempotencyParams:  map[string]interface{}{"line_id": "line-1", "posting_guid": "guid-1"},
	}

	_, err := svc.PostPayment(ctx, req)
	require.NoError(t, err)

	_, err = svc.PostPayment(ctx, req)
	require.Error(t, err)
	assert.True(t, ierr.IsIdempotent(err))
}

func TestPostAutoSubmit_NoOuterIdempotencyCheck_DedupesViaLedgerScan(t *testing.T) {
	svc, lines, _ := newTestService(t)
	ctx := context.Background()
	require.NoError(t, lines.Create(ctx, testLine()))
	carrier1 := "ic-1"

	out1, err := svc.PostAutoSubmit(ctx, "line-1", &carrier1, fixedDate(), "u1")
	require.NoError(t, err)
	assert.Equal(t, posting.ResultSuccess, out1.Result)

	_, err = svc.PostAutoSubmit(ctx, "line-1", &carrier1, fixedDate(), "u1")
	require.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
}
