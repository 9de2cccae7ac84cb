package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariesone/dme-billing-engine/internal/billing/invoicegen"
	"github.com/ariesone/dme-billing-engine/internal/billing/mir"
	"github.com/ariesone/dme-billing-engine/internal/cache"
	"github.com/ariesone/dme-billing-engine/internal/config"
	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seedOrder(t *testing.T, svc *BillingService, id, policyID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.repos.Order.Create(ctx, &order.Order{
		ID:                   id,
		CustomerID:           "cust-1",
		CustomerInsurance1ID: &policyID,
		DeliveryDate:         d("2024-01-01"),
		Approved:             true,
	}))
	require.NoError(t, svc.repos.Policy.Create(ctx, &policy.Policy{
		ID: policyID, CustomerID: "cust-1", InsuranceCompanyID: "carrier-1",
	}))
}

func seedOrderLine(t *testing.T, svc *BillingService, id, orderID string) {
	t.Helper()
	require.NoError(t, svc.repos.OrderLine.Create(context.Background(), &orderline.OrderLine{
		ID:             id,
		OrderID:        orderID,
		SaleRentType:   types.SaleRentMonthlyRental,
		Frequency:      types.FrequencyMonthly,
		BillingMonth:   1,
		DOSFrom:        d("2024-01-01"),
		DOSTo:          d("2024-01-31"),
		BillIns1:       true,
		BilledQuantity: decimal.NewFromInt(1),
		BillablePrice:  decimal.RequireFromString("100.00"),
		AllowablePrice: decimal.RequireFromString("100.00"),
		State:          types.OrderLineStateOpen,
		Active:         true,
	}))
}

func TestGenerateInvoices_IndependentOrders_AllSucceedConcurrently(t *testing.T) {
	svc, _, _ := newTestService(t)

	seedOrder(t, svc, "order-1", "policy-1")
	seedOrderLine(t, svc, "oline-1", "order-1")
	seedOrder(t, svc, "order-2", "policy-2")
	seedOrderLine(t, svc, "oline-2", "order-2")

	reqs := []GenerationRequest{
		{OrderID: "order-1", BillingMonth: 1, BillingFlags: invoicegen.FlagIns1, InvoiceDate: d("2024-01-01"), UserID: "u1"},
		{OrderID: "order-2", BillingMonth: 1, BillingFlags: invoicegen.FlagIns1, InvoiceDate: d("2024-01-01"), UserID: "u1"},
	}

	results := svc.GenerateInvoices(context.Background(), reqs, 2)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Invoice)
		require.Len(t, res.Lines, 1)
		assert.True(t, decimal.RequireFromString("100.00").Equal(res.Lines[0].Balance))
	}

	invA, err := svc.repos.Invoice.Get(context.Background(), results[0].Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, results[0].OrderID, invA.OrderID)
}

func TestRunDueInvoiceGeneration_SkipsOrderWithDivergentBillingMonths(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	seedOrder(t, svc, "order-1", "policy-1")
	seedOrderLine(t, svc, "oline-1", "order-1")

	seedOrder(t, svc, "order-2", "policy-2")
	seedOrderLine(t, svc, "oline-2a", "order-2")
	divergent := orderline.OrderLine{
		ID:             "oline-2b",
		OrderID:        "order-2",
		SaleRentType:   types.SaleRentMonthlyRental,
		Frequency:      types.FrequencyMonthly,
		BillingMonth:   2,
		DOSFrom:        d("2024-01-01"),
		DOSTo:          d("2024-01-31"),
		BillIns1:       true,
		BilledQuantity: decimal.NewFromInt(1),
		BillablePrice:  decimal.RequireFromString("100.00"),
		AllowablePrice: decimal.RequireFromString("100.00"),
		State:          types.OrderLineStateOpen,
		Active:         true,
	}
	require.NoError(t, svc.repos.OrderLine.Create(ctx, &divergent))

	results, err := svc.RunDueInvoiceGeneration(ctx, d("2024-01-01"), 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "order-1", results[0].OrderID)
	require.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Invoice)
}

// TestValidateMIR_MissingFacilityAndDoctor_ReportsBothDefects mirrors
// the clean-context fixture from internal/billing/mir's own tests
// (ICD10Codes set, a "self" policy, a complete CMN) but leaves
// Facility/Doctor unresolved, the one pair ValidateMIR's caller (not
// internal/service) is responsible for supplying.
func TestValidateMIR_MissingFacilityAndDoctor_ReportsBothDefects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.repos.Customer.Create(ctx, &customer.Customer{
		ID: "cust-1", FirstName: "Jane", LastName: "Doe",
		Address1: "1 Main St", City: "Springfield", State: "IL", Zip: "62701",
	}))
	require.NoError(t, svc.repos.Order.Create(ctx, &order.Order{
		ID:         "order-1",
		CustomerID: "cust-1",
		ICD10Codes: []string{"M54.5"},
	}))
	require.NoError(t, svc.repos.Policy.Create(ctx, &policy.Policy{
		ID: "policy-1", CustomerID: "cust-1", InsuranceCompanyID: "carrier-1",
		RelationshipCode: policy.RelationshipSelf,
	}))
	require.NoError(t, svc.repos.OrderLine.Create(ctx, &orderline.OrderLine{
		ID:      "oline-1",
		OrderID: "order-1",
		DOSFrom: d("2024-01-01"),
		Active:  true,
	}))

	req := MIRCheckRequest{
		OrderID:    "order-1",
		CustomerID: "cust-1",
		CMN:        &mir.CMNForm{CMNType: "DMERC 484.2", Answers: map[string]string{"PatientDiagnosis": "x", "LengthOfNeed": "x", "PhysicianSignatureDate": "x"}},
		AsOf:       d("2024-06-01"),
	}

	defects, err := svc.ValidateMIR(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "Facility,Doctor", defects)

	svc.mirCache = cache.NewInMemoryCache(config.GetDefaultConfig())
	uncached, err := svc.ValidateMIR(ctx, req)
	require.NoError(t, err)
	cached, err := svc.ValidateMIR(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, uncached, cached)
	assert.Equal(t, defects, cached)
}
