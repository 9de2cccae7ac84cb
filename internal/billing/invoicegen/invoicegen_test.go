package invoicegen

import (
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustDec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseOrder() *order.Order {
	ins1 := "policy-1"
	return &order.Order{
		ID:                   "order-1",
		CustomerID:           "cust-1",
		CustomerInsurance1ID: &ins1,
		DeliveryDate:         d("2024-01-01"),
		Approved:             true,
	}
}

func monthlyRentalLine() *orderline.OrderLine {
	return &orderline.OrderLine{
		ID:              "oline-1",
		OrderID:         "order-1",
		SaleRentType:    types.SaleRentMonthlyRental,
		Frequency:       types.FrequencyMonthly,
		BillingMonth:    1,
		DOSFrom:         d("2024-01-01"),
		DOSTo:           d("2024-01-31"),
		BillIns1:        true,
		BilledQuantity:  decimal.NewFromInt(1),
		BillablePrice:   mustDec("100.00"),
		AllowablePrice:  mustDec("100.00"),
		State:           types.OrderLineStateOpen,
		Active:          true,
	}
}

func TestGenerate_MonthlyRental_QualifiesAndBills(t *testing.T) {
	ord := baseOrder()
	ol := monthlyRentalLine()

	out := Generate(Input{
		Order:        ord,
		OrderLines:   []*orderline.OrderLine{ol},
		BillingMonth: 1,
		BillingFlags: FlagIns1,
		InvoiceDate:  d("2024-01-01"),
		Policies: map[string]*policy.Policy{
			"policy-1": {ID: "policy-1", InsuranceCompanyID: "carrier-1"},
		},
	})

	require.NotNil(t, out.Invoice)
	require.Len(t, out.Lines, 1)
	line := out.Lines[0]
	assert.True(t, mustDec("100.00").Equal(line.BillableAmount))
	assert.Equal(t, payer.Ins1, line.CurrentPayer)
	require.NotNil(t, line.InsuranceCompany1ID)
	assert.Equal(t, "carrier-1", *line.InsuranceCompany1ID)

	require.Len(t, out.AdvancedOrderLines, 1)
	advanced := out.AdvancedOrderLines[0]
	assert.Equal(t, 2, advanced.BillingMonth)
	assert.True(t, advanced.DOSFrom.Equal(d("2024-02-01")))
	assert.Equal(t, types.OrderLineStateOpen, advanced.State)
}

func TestGenerate_NoQualifyingLines_ReturnsEmptyOutput(t *testing.T) {
	ord := baseOrder()
	ol := monthlyRentalLine()
	ol.BillingMonth = 2 // doesn't match the requested billing month

	out := Generate(Input{
		Order:        ord,
		OrderLines:   []*orderline.OrderLine{ol},
		BillingMonth: 1,
		BillingFlags: FlagIns1,
		InvoiceDate:  d("2024-01-01"),
	})

	assert.Nil(t, out.Invoice)
	assert.Empty(t, out.Lines)
}

func TestGenerate_Month1Deposit_PostsAsPaymentOnFirstLine(t *testing.T) {
	ord := baseOrder()
	ol := monthlyRentalLine()

	out := Generate(Input{
		Order:        ord,
		OrderLines:   []*orderline.OrderLine{ol},
		BillingMonth: 1,
		BillingFlags: FlagIns1,
		InvoiceDate:  d("2024-01-01"),
		Deposits:     []Deposit{{OrderLineID: "oline-1", Amount: mustDec("100.00")}},
		UserID:       "u1",
	})

	require.Len(t, out.Lines, 1)
	require.Len(t, out.DepositPayments, 1)
	assert.Equal(t, "Success", string(out.DepositPayments[0].Result))
	assert.True(t, mustDec("0.00").Equal(out.Lines[0].Balance))
	assert.Equal(t, payer.None, out.Lines[0].CurrentPayer)
}

func TestGenerate_CappedRentalMonth16_SkippedPostCutover(t *testing.T) {
	ord := baseOrder()
	ord.DeliveryDate = d("2010-01-01")
	ol := monthlyRentalLine()
	ol.SaleRentType = types.SaleRentCappedRental
	ol.BillingMonth = 16

	out := Generate(Input{
		Order:        ord,
		OrderLines:   []*orderline.OrderLine{ol},
		BillingMonth: 16,
		BillingFlags: FlagIns1,
		InvoiceDate:  d("2024-01-01"),
	})

	assert.Nil(t, out.Invoice)
}

func TestGenerate_OutOfWindowLine_DoesNotQualify(t *testing.T) {
	ord := baseOrder()
	ol := monthlyRentalLine()

	out := Generate(Input{
		Order:        ord,
		OrderLines:   []*orderline.OrderLine{ol},
		BillingMonth: 1,
		BillingFlags: FlagIns1,
		InvoiceDate:  d("2024-03-01"), // past ol.DOSTo
	})

	assert.Nil(t, out.Invoice)
}
