package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/mir"
	"github.com/ariesone/dme-billing-engine/internal/cache"
)

// mirRuleCacheTTL bounds how long a resolved defect string is reused
// for the same order/customer/snapshot hash before ValidateMIR
// re-walks the declarative rule table.
const mirRuleCacheTTL = 30 * time.Second

// MIRCheckRequest bundles what ValidateMIR loads itself (customer,
// policies, order lines) with the externally-resolved snapshots spec
// §1 scopes out of this module's persistence (Facility, Doctor, CMN).
type MIRCheckRequest struct {
	OrderID    string
	CustomerID string
	Facility   *mir.FacilityInfo
	Doctor     *mir.DoctorInfo
	CMN        *mir.CMNForm
	AsOf       time.Time
}

// ValidateMIR resolves the order's customer/policies/order-lines and
// runs them through the declarative Missing Information Report rule
// table, returning the comma-separated defect-code string (empty when
// clean).
func (s *BillingService) ValidateMIR(ctx context.Context, req MIRCheckRequest) (string, error) {
	ord, err := s.repos.Order.Get(ctx, req.OrderID)
	if err != nil {
		return "", err
	}
	cust, err := s.repos.Customer.Get(ctx, req.CustomerID)
	if err != nil {
		return "", err
	}
	policies, err := s.repos.Policy.ListForCustomer(ctx, req.CustomerID)
	if err != nil {
		return "", err
	}
	orderLines, err := s.repos.OrderLine.ListDueForOrder(ctx, req.OrderID)
	if err != nil {
		return "", err
	}

	mctx := mir.Context{
		Customer:   cust,
		Order:      ord,
		OrderLines: orderLines,
		Policies:   policies,
		Facility:   req.Facility,
		Doctor:     req.Doctor,
		CMN:        req.CMN,
		AsOf:       req.AsOf,
	}

	key := mirCacheKey(req.OrderID, req.CustomerID, mctx)
	if s.mirCache != nil {
		if cached, ok := s.mirCache.Get(ctx, key); ok {
			return cached.(string), nil
		}
	}

	defects := mir.Validate(mctx)
	if s.mirCache != nil {
		s.mirCache.Set(ctx, key, defects, mirRuleCacheTTL)
	}
	return defects, nil
}

// mirCacheKey hashes every field Validate reads, so a cache hit is only
// ever served for the exact snapshot that produced it; any change to
// Customer, Order, OrderLines, Policies, Facility, Doctor, CMN, or AsOf
// yields a different key and the cache is bypassed.
func mirCacheKey(orderID, customerID string, mctx mir.Context) string {
	snapshot, err := json.Marshal(mctx)
	if err != nil {
		snapshot = []byte(fmt.Sprintf("%+v", mctx))
	}
	sum := sha256.Sum256(snapshot)
	return cache.GenerateKey(cache.PrefixMIRRule, orderID, customerID, hex.EncodeToString(sum[:8]))
}
