// Package customer holds the Customer aggregate: identity,
// demographics, and the handful of billing-relevant flags the engine
// reads (commercial account, hardship, tax rate).
package customer

import (
	ierr "github.com/ariesone/dme-billing-engine/internal/errors"
	"github.com/ariesone/dme-billing-engine/internal/types"
)

// Customer is the patient/account the engine bills.
type Customer struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active"`
	// CommercialAccount suppresses demographic MIR checks (spec §4.G).
	CommercialAccount bool `json:"commercial_account"`
	// Hardship gates the automatic balance writeoff in the payment
	// poster (spec §4.D step 8).
	Hardship  bool    `json:"hardship"`
	TaxRateID *string `json:"tax_rate_id,omitempty"`

	// Demographic fields the MIR validator checks for presence when
	// CommercialAccount is false.
	Address1 string `json:"address1,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zip      string `json:"zip,omitempty"`

	types.BaseModel
}

func (c *Customer) Validate() error {
	if c.ID == "" {
		return ierr.NewValidationError("id", "is required")
	}
	if c.FirstName == "" {
		return ierr.NewValidationError("first_name", "is required")
	}
	if c.LastName == "" {
		return ierr.NewValidationError("last_name", "is required")
	}
	return nil
}
