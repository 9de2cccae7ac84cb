package posting

// Result is one of the stable result strings returned by the posters
// (spec §6). Callers branch on equality with the constants below, not
// on error type — a non-Success result is not itself a Go error; it's
// the poster's own half of the "Validation / Idempotency rejection"
// error taxonomy (spec §7).
type Result string

const (
	ResultSuccess                      Result = "Success"
	ResultInvoiceDetailsIDWrong        Result = "InvoiceDetailsID is wrong"
	ResultInsuranceCompanyIDWrong      Result = "InsuranceCompanyID is wrong"
	ResultAutosubmittedCompanyIDWrong  Result = "Autosubmitted Company ID is wrong"
	ResultAutosubmittedPayerWrong      Result = "Autosubmitted Payer is wrong"
	ResultTransactionAlreadyExists     Result = "Transaction already exists"
	ResultPaidAmountNotSpecified       Result = "Paid amount is not specified"
)

// ResultCheckNumberConflict formats the one parameterized result
// string: "Payment for check# <N> does already exist".
func ResultCheckNumberConflict(checkNumber string) Result {
	return Result("Payment for check# " + checkNumber + " does already exist")
}
