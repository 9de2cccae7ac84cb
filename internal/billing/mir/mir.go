// Package mir implements the Missing Information Report validator
// (spec §4.G): a declarative rule table per entity, producing a
// comma-separated defect-code string that blocks claim submission
// downstream. It never validates CMN-form *content* — only whether
// the answers a CMN form is supposed to carry are present — per the
// CMN-form content validation Non-goal.
package mir

import (
	"regexp"
	"strings"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
)

// npiPattern is the doctor NPI rule from spec §4.G: ten digits,
// optionally trailing whitespace.
var npiPattern = regexp.MustCompile(`^\d{10}\s*$`)

// FacilityInfo is the facility snapshot the MIR validator checks.
// Facility is a named external collaborator (spec §1 scope) with no
// persistence of its own in this module; the caller resolves it by
// Order.FacilityID and hands the snapshot in.
type FacilityInfo struct {
	ID       string
	Name     string
	Address1 string
	City     string
	State    string
	Zip      string
}

// DoctorInfo is the doctor snapshot the MIR validator checks,
// resolved by Order.DoctorID the same way FacilityInfo is.
type DoctorInfo struct {
	ID   string
	NPI  string
	Name string
}

// CMNForm is a Certificate of Medical Necessity: a typed document
// (e.g. "DMERC 484.2") whose required answer keys must be present.
// Content is never inspected, only presence.
type CMNForm struct {
	CMNType string
	Answers map[string]string
}

// RequiredCMNAnswers maps a CMNType to the answer keys a complete form
// of that type must carry. Types absent from this table require no
// answers (defaultRequiredCMNAnswers is empty).
var RequiredCMNAnswers = map[string][]string{
	"DMERC 484.2": {"PatientDiagnosis", "LengthOfNeed", "PhysicianSignatureDate"},
}

var defaultRequiredCMNAnswers = []string{}

// Context bundles every entity snapshot one MIR pass needs. AsOf gates
// the authorization-expiry check; it defaults to the zero time meaning
// "no expiry check" only if left unset by the caller, so callers should
// always set it to the evaluation instant.
type Context struct {
	Customer   *customer.Customer
	Order      *order.Order
	OrderLines []*orderline.OrderLine
	Policies   []*policy.Policy
	Facility   *FacilityInfo
	Doctor     *DoctorInfo
	CMN        *CMNForm
	AsOf       time.Time
}

// Validate runs every rule in the declarative table against ctx and
// returns the comma-separated defect-code string (empty when clean).
func Validate(ctx Context) string {
	var codes []string
	codes = append(codes, facilityDefects(ctx.Facility)...)
	codes = append(codes, doctorDefects(ctx.Doctor)...)
	codes = append(codes, customerDefects(ctx.Customer)...)
	codes = append(codes, policyDefects(ctx.Policies)...)
	codes = append(codes, cmnDefects(ctx.CMN)...)
	codes = append(codes, orderLineDefects(ctx.Order, ctx.OrderLines, ctx.AsOf)...)
	return strings.Join(dedupe(codes), ",")
}

// dedupe drops repeats while preserving first-seen order, since a
// defect spanning multiple order lines (e.g. a shared missing ICD
// set) should only appear once in the report.
func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func facilityDefects(f *FacilityInfo) []string {
	if f == nil {
		return []string{"Facility"}
	}
	var codes []string
	if f.Name == "" {
		codes = append(codes, "Facility.Name")
	}
	if f.Address1 == "" {
		codes = append(codes, "Facility.Address1")
	}
	if f.City == "" {
		codes = append(codes, "Facility.City")
	}
	if f.State == "" {
		codes = append(codes, "Facility.State")
	}
	if f.Zip == "" {
		codes = append(codes, "Facility.Zip")
	}
	return codes
}

func doctorDefects(doc *DoctorInfo) []string {
	if doc == nil {
		return []string{"Doctor"}
	}
	if !npiPattern.MatchString(doc.NPI) {
		return []string{"Doctor.NPI"}
	}
	return nil
}

// customerDefects skips every demographic check when CommercialAccount
// is set (spec §4.G: "customer demographics gated by
// CommercialAccount=0").
func customerDefects(c *customer.Customer) []string {
	if c == nil {
		return []string{"Customer"}
	}
	if c.CommercialAccount {
		return nil
	}
	var codes []string
	if c.FirstName == "" {
		codes = append(codes, "FirstName")
	}
	if c.LastName == "" {
		codes = append(codes, "LastName")
	}
	if c.Address1 == "" {
		codes = append(codes, "Address1")
	}
	if c.City == "" {
		codes = append(codes, "City")
	}
	if c.State == "" {
		codes = append(codes, "State")
	}
	if c.Zip == "" {
		codes = append(codes, "Zip")
	}
	return codes
}

// policyDefects checks subscriber fields for every policy whose
// RelationshipCode isn't "self" (spec §4.G: "insurance policy fields
// conditional on RelationshipCode≠18").
func policyDefects(policies []*policy.Policy) []string {
	var codes []string
	for _, p := range policies {
		if p.RelationshipCode == policy.RelationshipSelf {
			continue
		}
		if p.SubscriberID == "" {
			codes = append(codes, "Policy."+p.ID+".SubscriberID")
		}
		if p.SubscriberFirstName == "" {
			codes = append(codes, "Policy."+p.ID+".SubscriberFirstName")
		}
		if p.SubscriberLastName == "" {
			codes = append(codes, "Policy."+p.ID+".SubscriberLastName")
		}
	}
	return codes
}

func cmnDefects(cmn *CMNForm) []string {
	if cmn == nil {
		return []string{"CMN"}
	}
	required, ok := RequiredCMNAnswers[cmn.CMNType]
	if !ok {
		required = defaultRequiredCMNAnswers
	}
	var codes []string
	for _, key := range required {
		if cmn.Answers[key] == "" {
			codes = append(codes, "CMN."+key)
		}
	}
	return codes
}

// orderLineDefects checks each order line's diagnosis-code presence
// (ICD-9 below the 2015-10-01 cutover, ICD-10 on/after it) and
// authorization expiry, per spec §4.G.
func orderLineDefects(ord *order.Order, lines []*orderline.OrderLine, asOf time.Time) []string {
	if ord == nil {
		return nil
	}
	var codes []string
	for _, ol := range lines {
		if order.IsICD10(ol.DOSFrom) {
			if len(ord.ICD10Codes) == 0 {
				codes = append(codes, "ICD10.Missing")
			}
		} else if len(ord.ICD9Codes) == 0 {
			codes = append(codes, "ICD9.Missing")
		}

		if ol.AuthorizationExpiry != nil && !ol.AuthorizationExpiry.After(asOf) {
			codes = append(codes, "Authorization.Expired")
		}
	}
	return codes
}
