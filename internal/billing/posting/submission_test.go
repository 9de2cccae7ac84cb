package posting

import (
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAutoSubmit_DuplicateRejected(t *testing.T) {
	line := testLine("100.00", "100.00")
	carrier1 := "ic-1"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := AddAutoSubmit(line, nil, &carrier1, now, "u1")
	require.Equal(t, ResultSuccess, first.Result)

	second := AddAutoSubmit(line, first.NewTransactions, &carrier1, now, "u1")
	assert.Equal(t, ResultTransactionAlreadyExists, second.Result)
}

func TestAddAutoSubmit_UnknownCompany(t *testing.T) {
	line := testLine("100.00", "100.00")
	unknown := "nope"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := AddAutoSubmit(line, nil, &unknown, now, "u1")
	assert.Equal(t, ResultAutosubmittedCompanyIDWrong, out.Result)
}

func TestReflagLine_VoidsExistingSubmission(t *testing.T) {
	line := testLine("100.00", "100.00")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	submitted := AddSubmitted(line, nil, mustDecimal("100.00"), payer.Ins1, now, "u1", "batch-1", "u1")
	require.Equal(t, ResultSuccess, submitted.Result)
	require.True(t, submitted.Line.Submits.Has(payer.Ins1))

	reflagged := ReflagLine(submitted.Line, submitted.NewTransactions, now, "u1")
	require.NotNil(t, reflagged.NewTransactions)
	assert.Equal(t, types.TransactionVoidedSubmission, reflagged.NewTransactions[0].Kind)
	assert.False(t, reflagged.Line.Submits.Has(payer.Ins1))
}

func TestInvoiceUpdatePendingSubmissions_InsertsForUnflaggedLine(t *testing.T) {
	line := testLine("100.00", "100.00")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	payment := AddPayment(PaymentInput{Line: line, TxDate: now, Extra: `{"Paid":"0.00"}`})
	require.Equal(t, ResultSuccess, payment.Result)
	require.Equal(t, payer.Ins1, payment.Line.CurrentPayer)

	lines := []*invoiceline.Line{payment.Line}
	results := InvoiceUpdatePendingSubmissions(lines, nil, now, "u1")
	require.Len(t, results, 1)
	assert.Equal(t, types.TransactionPendingSubmission, results[0].NewTransactions[0].Kind)
	assert.True(t, mustDecimal("100.00").Equal(results[0].NewTransactions[0].Amount))
}
