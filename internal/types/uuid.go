package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateID returns a k-sortable unique identifier. Because ULIDs sort
// lexicographically by creation time, entity IDs double as an
// insertion-order key wherever that matters (the ledger relies on this
// directly, see ledger.Transaction.ID).
func GenerateID() string {
	return ulid.Make().String()
}

// GenerateIDWithPrefix returns a prefixed, k-sortable unique identifier,
// e.g. "inv_line_01HZYLLH2W5Q6D4VG3E2ZZ1X8F".
func GenerateIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateID())
}

const (
	IDPrefixCustomer            = "cust"
	IDPrefixPolicy               = "pol"
	IDPrefixOrder                = "ord"
	IDPrefixOrderLine            = "ord_line"
	IDPrefixInvoice              = "inv"
	IDPrefixInvoiceLine          = "inv_line"
	IDPrefixLedgerTransaction    = "ltx"
	IDPrefixInsuranceCompany     = "inscomp"
	IDPrefixWebhookEvent         = "whevt"
)
