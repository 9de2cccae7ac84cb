// Package policy holds CustomerInsurance ("Policy"): the per-customer
// ranked list of insurance coverages the billing engine selects payers
// from.
package policy

import (
	"time"

	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// InactiveRankSentinel is the dense-rank value assigned to inactive
// policies, demoting them below every active rank (spec §3 invariant:
// "Rank values on active policies form a dense 1..N ordering per
// customer; inactive policies are demoted to a sentinel high rank").
const InactiveRankSentinel = 999

// Policy is a CustomerInsurance: one coverage slot belonging to a
// Customer and an InsuranceCompany.
type Policy struct {
	ID                 string          `json:"id"`
	CustomerID         string          `json:"customer_id"`
	InsuranceCompanyID string          `json:"insurance_company_id"`
	Rank               int             `json:"rank"`
	PaymentPercent     decimal.Decimal `json:"payment_percent"`
	Basis              types.PolicyBasis `json:"basis"`
	// RelationshipCode gates several MIR checks: code 18 ("self") skips
	// the subscriber-detail checks a dependent relationship requires.
	RelationshipCode int        `json:"relationship_code"`
	InactiveDate      *time.Time `json:"inactive_date,omitempty"`

	// Subscriber fields the MIR validator requires present whenever
	// RelationshipCode != 18 (the patient isn't their own subscriber).
	SubscriberID        string `json:"subscriber_id,omitempty"`
	SubscriberFirstName string `json:"subscriber_first_name,omitempty"`
	SubscriberLastName  string `json:"subscriber_last_name,omitempty"`

	types.BaseModel
}

// RelationshipSelf is the RelationshipCode value meaning "patient is
// their own subscriber" — the one code that exempts a policy from the
// subscriber-detail MIR checks.
const RelationshipSelf = 18

// IsActive reports whether the policy is currently in force.
func (p *Policy) IsActive(asOf time.Time) bool {
	return p.InactiveDate == nil || p.InactiveDate.After(asOf)
}

// EffectiveRank returns Rank when active, else the sentinel high rank
// that demotes inactive policies below every active one.
func (p *Policy) EffectiveRank(asOf time.Time) int {
	if !p.IsActive(asOf) {
		return InactiveRankSentinel
	}
	return p.Rank
}

// ClampPaymentPercent clamps PaymentPercent to [0, 100] in place, the
// invariant spec §3 requires on every policy.
func (p *Policy) ClampPaymentPercent() {
	zero := decimal.Zero
	hundred := decimal.NewFromInt(100)
	if p.PaymentPercent.LessThan(zero) {
		p.PaymentPercent = zero
	} else if p.PaymentPercent.GreaterThan(hundred) {
		p.PaymentPercent = hundred
	}
}

func (p *Policy) Validate() error {
	if p.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if p.CustomerID == "" {
		return ierr.NewValidationError("customer_id", "is required")
	}
	if p.Basis != types.PolicyBasisAllowed && p.Basis != types.PolicyBasisBill {
		return ierr.NewValidationError("basis", "must be Allowed or Bill")
	}
	return nil
}

// NormalizeRanks assigns a dense 1..N rank to the active policies in
// policies (ordered by their current Rank, ties broken by ID for
// determinism) and demotes every inactive policy to the sentinel rank.
// This is the engine's implementation of the dense-ranking invariant;
// callers run it whenever a policy is added, removed, or its active
// window changes.
func NormalizeRanks(policies []*Policy, asOf time.Time) {
	active := make([]*Policy, 0, len(policies))
	for _, p := range policies {
		if p.IsActive(asOf) {
			active = append(active, p)
		} else {
			p.Rank = InactiveRankSentinel
		}
	}

	// stable sort by existing rank, then ID, for a deterministic
	// re-numbering that doesn't reshuffle ties arbitrarily.
	for i := 1; i < len(active); i++ {
		j := i
		for j > 0 && lessPolicy(active[j], active[j-1]) {
			active[j], active[j-1] = active[j-1], active[j]
			j--
		}
	}

	for i, p := range active {
		p.Rank = i + 1
	}
}

func lessPolicy(a, b *Policy) bool {
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.ID < b.ID
}
