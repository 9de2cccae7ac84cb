package recalc

import (
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func baseLine(billable string) *invoiceline.Line {
	ins1 := "ci-1"
	ins2 := "ci-2"
	carrier1 := "ic-1"
	carrier2 := "ic-2"
	return &invoiceline.Line{
		ID:                   "line-1",
		InvoiceID:            "inv-1",
		OrderLineID:          "ol-1",
		BillableAmount:       decimal.RequireFromString(billable),
		BillIns1:             true,
		BillIns2:             true,
		CustomerInsurance1ID: &ins1,
		CustomerInsurance2ID: &ins2,
		InsuranceCompany1ID:  &carrier1,
		InsuranceCompany2ID:  &carrier2,
	}
}

func tx(id string, kind types.TransactionKind, amount string, customerInsuranceID *string, ts time.Time) *ledger.Transaction {
	return &ledger.Transaction{
		ID:                  id,
		InvoiceLineID:       "line-1",
		CustomerInsuranceID: customerInsuranceID,
		Kind:                kind,
		Amount:              decimal.RequireFromString(amount),
		TransactionDate:     ts,
		CreatedAt:           ts,
	}
}

func TestRecalculate_SubmitThenTwoPayments_BalanceClearsToNone(t *testing.T) {
	line := baseLine("150.00")
	ins1 := line.CustomerInsurance1ID
	ins2 := line.CustomerInsurance2ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionSubmit, "150.00", ins1, now),
		tx("02", types.TransactionPayment, "100.00", ins1, now),
		tx("03", types.TransactionSubmit, "50.00", ins2, now),
		tx("04", types.TransactionPayment, "50.00", ins2, now),
	}

	out := Recalculate(line, txs)

	assert.True(t, decimal.RequireFromString("150.00").Equal(out.PaymentAmount))
	assert.True(t, decimal.Zero.Equal(out.Balance))
	assert.Equal(t, payer.None, out.CurrentPayer)
	assert.True(t, out.Payments.Has(payer.Ins1))
	assert.True(t, out.Payments.Has(payer.Ins2))
}

func TestRecalculate_OverpaymentGivesNegativeBalance_CurrentPayerClearsToNone(t *testing.T) {
	line := baseLine("100.00")
	ins1 := line.CustomerInsurance1ID
	ins2 := line.CustomerInsurance2ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionSubmit, "100.00", ins1, now),
		tx("02", types.TransactionPayment, "100.00", ins1, now),
		tx("03", types.TransactionPayment, "25.00", ins2, now),
	}

	out := Recalculate(line, txs)

	assert.True(t, decimal.RequireFromString("-25.00").Equal(out.Balance))
	assert.Equal(t, payer.None, out.CurrentPayer)
}

func TestRecalculate_ZeroPaymentSkipsToNextPayer(t *testing.T) {
	line := baseLine("100.00")
	ins1 := line.CustomerInsurance1ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionPayment, "0.00", ins1, now),
	}

	out := Recalculate(line, txs)

	assert.Equal(t, payer.Ins2, out.CurrentPayer)
	assert.True(t, decimal.RequireFromString("100.00").Equal(out.Balance))
	assert.True(t, out.ZeroPayments.Has(payer.Ins1))
	assert.True(t, out.Payments.Has(payer.Ins1), "a zero-payment posting still sets the Payments bit")
}

func TestRecalculate_ChangeCurrentPayeeOverridesAutoAdvance(t *testing.T) {
	line := baseLine("100.00")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionChangeCurrentPayee, "0.00", nil, now),
	}

	out := Recalculate(line, txs)

	assert.Equal(t, payer.Patient, out.CurrentPayer)
	assert.Nil(t, out.CurrentCustomerInsuranceID)
}

func TestRecalculate_HardshipWriteoffClearsBalance(t *testing.T) {
	line := baseLine("40.00")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionWriteoff, "40.00", nil, now),
	}

	out := Recalculate(line, txs)

	assert.True(t, decimal.Zero.Equal(out.Balance))
	assert.Equal(t, payer.None, out.CurrentPayer)
}

func TestRecalculate_IsIdempotent(t *testing.T) {
	line := baseLine("150.00")
	ins1 := line.CustomerInsurance1ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionSubmit, "150.00", ins1, now),
		tx("02", types.TransactionPayment, "60.00", ins1, now),
	}

	first := Recalculate(line, txs)
	second := Recalculate(first, txs)

	require.Equal(t, first.Balance, second.Balance)
	require.Equal(t, first.CurrentPayer, second.CurrentPayer)
	require.Equal(t, first.PaymentAmount, second.PaymentAmount)
	require.Equal(t, first.Payments, second.Payments)
	require.Equal(t, first.Submits, second.Submits)
}

func TestRecalculate_VoidedSubmissionClearsSubmitState(t *testing.T) {
	line := baseLine("100.00")
	ins1 := line.CustomerInsurance1ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionSubmit, "0.00", ins1, now),
		tx("02", types.TransactionVoidedSubmission, "0.00", ins1, now),
	}

	out := Recalculate(line, txs)

	assert.False(t, out.Submits.Has(payer.Ins1))
	assert.Nil(t, out.SubmitDates.Get(payer.Ins1))
}

func TestRecalculate_DeductibleOnlyAppliesToIns1(t *testing.T) {
	line := baseLine("100.00")
	ins1 := line.CustomerInsurance1ID
	ins2 := line.CustomerInsurance2ID
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		tx("01", types.TransactionDeductible, "20.00", ins2, now),
		tx("02", types.TransactionDeductible, "25.00", ins1, now),
	}

	out := Recalculate(line, txs)

	assert.True(t, decimal.RequireFromString("25.00").Equal(out.DeductibleAmount))
}
