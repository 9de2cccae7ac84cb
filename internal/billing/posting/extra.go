package posting

import (
	"encoding/json"
	"regexp"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

// jsonAPI decodes numbers as json.Number so numeric Extra fields can be
// regex-validated against their original text before being parsed,
// rather than round-tripping through float64 first.
var jsonAPI = jsoniter.Config{UseNumber: true, EscapeHTML: false}.Froze()

// numericPattern is the wire format for every numeric Extra field
// (spec §6); anything else is treated as absent rather than rejected.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+\.\d*|\d*\.\d+|\d+)$`)

// Extra is the parsed form of AddPayment's free-form "extra" blob.
type Extra struct {
	Paid                *decimal.Decimal
	Allowable           *decimal.Decimal
	Deductible          *decimal.Decimal
	Sequestration       *decimal.Decimal
	ContractualWriteoff *decimal.Decimal
	CheckNumber         string
	PostingGuid         string
	PaymentMethod       string
	CheckDate           string
}

// ParseExtra decodes blob into an Extra. It never returns an error for
// malformed individual fields — an unparseable numeric value is simply
// left nil, per spec §6 ("unmatched values are treated as absent") —
// but a blob that isn't a JSON object at all parses to a zero Extra.
func ParseExtra(blob string) *Extra {
	ex := &Extra{}
	if blob == "" {
		return ex
	}

	var raw map[string]jsoniter.RawMessage
	if err := jsonAPI.Unmarshal([]byte(blob), &raw); err != nil {
		return ex
	}

	ex.Paid = parseNumeric(raw["Paid"])
	ex.Allowable = parseNumeric(raw["Allowable"])
	ex.Deductible = parseNumeric(raw["Deductible"])
	ex.Sequestration = parseNumeric(raw["Sequestration"])
	ex.ContractualWriteoff = parseNumeric(raw["ContractualWriteoff"])
	ex.CheckNumber = parseString(raw["CheckNumber"])
	ex.PostingGuid = parseString(raw["PostingGuid"])
	ex.PaymentMethod = parseString(raw["PaymentMethod"])
	ex.CheckDate = parseString(raw["CheckDate"])

	return ex
}

func parseNumeric(raw jsoniter.RawMessage) *decimal.Decimal {
	if len(raw) == 0 {
		return nil
	}

	var v interface{}
	if err := jsonAPI.Unmarshal(raw, &v); err != nil {
		return nil
	}

	var text string
	switch vv := v.(type) {
	case json.Number:
		text = vv.String()
	case string:
		text = vv
	default:
		return nil
	}

	if !numericPattern.MatchString(text) {
		return nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil
	}
	return &d
}

func parseString(raw jsoniter.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := jsonAPI.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
