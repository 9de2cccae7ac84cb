package posting

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

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testLine(billable, allowable string) *invoiceline.Line {
	ins1 := "ci-1"
	carrier1 := "ic-1"
	return &invoiceline.Line{
		ID:                   "line-1",
		InvoiceID:            "inv-1",
		BillableAmount:       mustDecimal(billable),
		AllowableAmount:      mustDecimal(allowable),
		BillIns1:             true,
		CustomerInsurance1ID: &ins1,
		InsuranceCompany1ID:  &carrier1,
	}
}

func TestAddPayment_Success_PostsPaymentAndRecalculates(t *testing.T) {
	line := testLine("100.00", "100.00")
	carrier1 := "ic-1"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := AddPayment(PaymentInput{
		Line:               line,
		InsuranceCompanyID: &carrier1,
		TxDate:             now,
		Extra:              `{"Paid": "100.00"}`,
		UserID:             "u1",
	})

	require.Equal(t, ResultSuccess, out.Result)
	require.Len(t, out.NewTransactions, 1)
	assert.Equal(t, types.TransactionPayment, out.NewTransactions[0].Kind)
	assert.True(t, mustDecimal("0.00").Equal(out.Line.Balance))
	assert.Equal(t, payer.None, out.Line.CurrentPayer)
}

func TestAddPayment_MissingLine_ReturnsInvoiceDetailsIDWrong(t *testing.T) {
	out := AddPayment(PaymentInput{Extra: `{"Paid":"1.00"}`})
	assert.Equal(t, ResultInvoiceDetailsIDWrong, out.Result)
}

func TestAddPayment_UnknownInsuranceCompany_ReturnsWrong(t *testing.T) {
	line := testLine("100.00", "100.00")
	unknown := "not-a-carrier"
	out := AddPayment(PaymentInput{Line: line, InsuranceCompanyID: &unknown, Extra: `{"Paid":"1.00"}`})
	assert.Equal(t, ResultInsuranceCompanyIDWrong, out.Result)
}

func TestAddPayment_MissingPaid_ReturnsNotSpecified(t *testing.T) {
	line := testLine("100.00", "100.00")
	out := AddPayment(PaymentInput{Line: line, Extra: `{}`})
	assert.Equal(t, ResultPaidAmountNotSpecified, out.Result)
}

func TestAddPayment_CheckNumberConflict(t *testing.T) {
	line := testLine("100.00", "100.00")
	carrier1 := "ic-1"
	ins1 := "ci-1"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	prior := []*ledger.Transaction{
		{
			ID:                  "01",
			InvoiceLineID:       "line-1",
			CustomerInsuranceID: &ins1,
			Kind:                types.TransactionPayment,
			Amount:              mustDecimal("50.00"),
			Extra:               `{"Paid":"50.00","CheckNumber":"111","PostingGuid":"guid-a"}`,
		},
	}

	out := AddPayment(PaymentInput{
		Line:               line,
		InsuranceCompanyID: &carrier1,
		TxDate:             now,
		Extra:              `{"Paid":"50.00","CheckNumber":"111","PostingGuid":"guid-b"}`,
		PriorTransactions:  prior,
	})

	assert.Equal(t, ResultCheckNumberConflict("111"), out.Result)
}

func TestAddPayment_AdjustAllowable_UpdatesGapForContractualWriteoff(t *testing.T) {
	line := testLine("100.00", "100.00")
	carrier1 := "ic-1"
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	basis := types.PolicyBasisAllowed

	out := AddPayment(PaymentInput{
		Line:               line,
		InsuranceCompanyID: &carrier1,
		TxDate:             now,
		Extra:              `{"Paid":"80.00","Allowable":"80.00"}`,
		Options:            []types.PostingOption{types.PostingOptionAdjustAllowable},
		PolicyBasis:        &basis,
	})

	require.Equal(t, ResultSuccess, out.Result)

	var kinds []types.TransactionKind
	for _, tx := range out.NewTransactions {
		kinds = append(kinds, tx.Kind)
	}
	assert.Contains(t, kinds, types.TransactionAdjustAllowable)
	assert.Contains(t, kinds, types.TransactionContractualWriteoff)
}

func TestAddPayment_HardshipWriteoff_ClearsRemainingBalance(t *testing.T) {
	// No insurance eligible on this line, so Patient is the only
	// candidate payer and the zero-paid Denied posting leaves
	// CurrentPayer = Patient, which is what arms the hardship writeoff.
	line := &invoiceline.Line{
		ID:             "line-1",
		InvoiceID:      "inv-1",
		BillableAmount: mustDecimal("40.00"),
		AllowableAmount: mustDecimal("40.00"),
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := AddPayment(PaymentInput{
		Line:     line,
		TxDate:   now,
		Extra:    `{"Paid":"0.00"}`,
		Options:  []types.PostingOption{types.PostingOptionPostDenied},
		Hardship: true,
	})

	require.Equal(t, ResultSuccess, out.Result)
	assert.True(t, mustDecimal("0.00").Equal(out.Line.Balance))

	var sawWriteoff bool
	for _, tx := range out.NewTransactions {
		if tx.Kind == types.TransactionWriteoff {
			sawWriteoff = true
			assert.Equal(t, "Hardship Writeoff", tx.Comments)
		}
	}
	assert.True(t, sawWriteoff)
}

func TestAddPayment_PostDenied_WhenPaidIsZero(t *testing.T) {
	line := testLine("40.00", "40.00")
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := AddPayment(PaymentInput{
		Line:    line,
		TxDate:  now,
		Extra:   `{"Paid":"0.00"}`,
		Options: []types.PostingOption{types.PostingOptionPostDenied},
	})

	require.Equal(t, ResultSuccess, out.Result)
	assert.Equal(t, types.TransactionDenied, out.NewTransactions[0].Kind)
}
