package mir

import (
	"testing"
	"time"

	"github.com/ariesone/dme-billing-engine/internal/domain/customer"
	"github.com/ariesone/dme-billing-engine/internal/domain/order"
	"github.com/ariesone/dme-billing-engine/internal/domain/orderline"
	"github.com/ariesone/dme-billing-engine/internal/domain/policy"
	"github.com/stretchr/testify/assert"
)

func cleanContext() Context {
	return Context{
		Customer: &customer.Customer{
			ID: "cust-1", FirstName: "Jane", LastName: "Doe",
			Address1: "1 Main St", City: "Springfield", State: "IL", Zip: "62701",
		},
		Order: &order.Order{ID: "order-1", ICD10Codes: []string{"M54.5"}},
		OrderLines: []*orderline.OrderLine{
			{ID: "ol-1", DOSFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		Policies: []*policy.Policy{
			{ID: "pol-1", RelationshipCode: policy.RelationshipSelf},
		},
		Facility: &FacilityInfo{Name: "Acme DME", Address1: "2 Elm St", City: "Springfield", State: "IL", Zip: "62701"},
		Doctor:   &DoctorInfo{NPI: "1234567890", Name: "Dr. Smith"},
		CMN:      &CMNForm{CMNType: "DMERC 484.2", Answers: map[string]string{"PatientDiagnosis": "x", "LengthOfNeed": "x", "PhysicianSignatureDate": "x"}},
		AsOf:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidate_CleanContext_ProducesNoDefects(t *testing.T) {
	assert.Equal(t, "", Validate(cleanContext()))
}

func TestValidate_MissingDoctor_ProducesDoctorCode(t *testing.T) {
	ctx := cleanContext()
	ctx.Doctor = nil
	assert.Equal(t, "Doctor", Validate(ctx))
}

func TestValidate_BadNPI_ProducesDoctorNPICode(t *testing.T) {
	ctx := cleanContext()
	ctx.Doctor = &DoctorInfo{NPI: "12345"}
	assert.Equal(t, "Doctor.NPI", Validate(ctx))
}

func TestValidate_CommercialAccount_SkipsDemographics(t *testing.T) {
	ctx := cleanContext()
	ctx.Customer = &customer.Customer{ID: "cust-1", CommercialAccount: true}
	assert.Equal(t, "", Validate(ctx))
}

func TestValidate_NonCommercialMissingDemographics_ProducesCodes(t *testing.T) {
	ctx := cleanContext()
	ctx.Customer = &customer.Customer{ID: "cust-1"}
	assert.Equal(t, "FirstName,LastName,Address1,City,State,Zip", Validate(ctx))
}

func TestValidate_DependentPolicyMissingSubscriber_ProducesCodes(t *testing.T) {
	ctx := cleanContext()
	ctx.Policies = []*policy.Policy{{ID: "pol-1", RelationshipCode: 1}}
	assert.Equal(t, "Policy.pol-1.SubscriberID,Policy.pol-1.SubscriberFirstName,Policy.pol-1.SubscriberLastName", Validate(ctx))
}

func TestValidate_SelfRelationship_SkipsSubscriberChecks(t *testing.T) {
	ctx := cleanContext()
	ctx.Policies = []*policy.Policy{{ID: "pol-1", RelationshipCode: policy.RelationshipSelf}}
	assert.Equal(t, "", Validate(ctx))
}

func TestValidate_IncompleteCMN_ProducesCodes(t *testing.T) {
	ctx := cleanContext()
	ctx.CMN = &CMNForm{CMNType: "DMERC 484.2", Answers: map[string]string{"PatientDiagnosis": "x"}}
	assert.Equal(t, "CMN.LengthOfNeed,CMN.PhysicianSignatureDate", Validate(ctx))
}

func TestValidate_ICD10LineMissingICD10Codes_ProducesCode(t *testing.T) {
	ctx := cleanContext()
	ctx.Order.ICD10Codes = nil
	assert.Equal(t, "ICD10.Missing", Validate(ctx))
}

func TestValidate_PreCutoverLineRequiresICD9(t *testing.T) {
	ctx := cleanContext()
	ctx.OrderLines = []*orderline.OrderLine{
		{ID: "ol-1", DOSFrom: time.Date(2014, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, "ICD9.Missing", Validate(ctx))
}

func TestValidate_ExpiredAuthorization_ProducesCode(t *testing.T) {
	ctx := cleanContext()
	expiry := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx.OrderLines[0].AuthorizationExpiry = &expiry
	assert.Equal(t, "Authorization.Expired", Validate(ctx))
}

func TestValidate_DuplicateDefectAcrossLines_AppearsOnce(t *testing.T) {
	ctx := cleanContext()
	ctx.Order.ICD10Codes = nil
	ctx.OrderLines = []*orderline.OrderLine{
		{ID: "ol-1", DOSFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "ol-2", DOSFrom: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	assert.Equal(t, "ICD10.Missing", Validate(ctx))
}
