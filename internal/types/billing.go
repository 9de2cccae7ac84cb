package types

// SaleRentType is the billing regime assigned to an order line. The
// wire values are stable (§6 of the specification) and must not be
// renamed.
type SaleRentType string

const (
	SaleRentOneTimeSale           SaleRentType = "One Time Sale"
	SaleRentReOccurringSale       SaleRentType = "Re-occurring Sale"
	SaleRentOneTimeRental         SaleRentType = "One Time Rental"
	SaleRentMonthlyRental         SaleRentType = "Monthly Rental"
	SaleRentMedicareOxygenRental  SaleRentType = "Medicare Oxygen Rental"
	SaleRentRentToPurchase        SaleRentType = "Rent to Purchase"
	SaleRentCappedRental          SaleRentType = "Capped Rental"
	SaleRentParentalCappedRental  SaleRentType = "Parental Capped Rental"
)

// Frequency drives the date-roll primitives in the schedule package.
type Frequency string

const (
	FrequencyOneTime         Frequency = "One time"
	FrequencyDaily           Frequency = "Daily"
	FrequencyWeekly          Frequency = "Weekly"
	FrequencyMonthly         Frequency = "Monthly"
	FrequencyCalendarMonthly Frequency = "Calendar Monthly"
	FrequencyQuarterly       Frequency = "Quarterly"
	FrequencySemiAnnually    Frequency = "Semi-Annually"
	FrequencyAnnually        Frequency = "Annually"
	FrequencyCustom          Frequency = "Custom"
)

// OrderLineState is the lifecycle state of an OrderLine.
type OrderLineState string

const (
	OrderLineStateOpen   OrderLineState = "Open"
	OrderLineStatePickup OrderLineState = "Pickup"
	OrderLineStateClosed OrderLineState = "Closed"
)

// PolicyBasis determines whether a policy pays off the Allowable or
// the Bill (Billable) amount, and therefore whether a contractual
// writeoff is implied by their difference.
type PolicyBasis string

const (
	PolicyBasisAllowed PolicyBasis = "Allowed"
	PolicyBasisBill    PolicyBasis = "Bill"
)

// TransactionKind enumerates the exhaustive, wire-stable set of ledger
// transaction kinds (§6).
type TransactionKind string

const (
	TransactionSubmit               TransactionKind = "Submit"
	TransactionAutoSubmit           TransactionKind = "Auto Submit"
	TransactionVoidedSubmission     TransactionKind = "Voided Submission"
	TransactionPendingSubmission    TransactionKind = "Pending Submission"
	TransactionPayment              TransactionKind = "Payment"
	TransactionDenied               TransactionKind = "Denied"
	TransactionDeductible           TransactionKind = "Deductible"
	TransactionWriteoff             TransactionKind = "Writeoff"
	TransactionContractualWriteoff  TransactionKind = "Contractual Writeoff"
	TransactionAdjustAllowable      TransactionKind = "Adjust Allowable"
	TransactionChangeCurrentPayee   TransactionKind = "Change Current Payee"
)

// InvoiceStatus is not part of the wire-stable ledger vocabulary; it is
// an ambient bookkeeping status on the Invoice aggregate.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusFinalized InvoiceStatus = "finalized"
	InvoiceStatusVoided    InvoiceStatus = "voided"
)

// Billing flag bits accepted by the Invoice Generator (§6 billingFlags).
const (
	BillingFlagIns1             uint8 = 1 << 0
	BillingFlagIns2             uint8 = 1 << 1
	BillingFlagIns3             uint8 = 1 << 2
	BillingFlagIns4             uint8 = 1 << 3
	BillingFlagAcceptAssignment uint8 = 1 << 4
	BillingFlagHasEndDate       uint8 = 1 << 5
)

// PostingOption is one of the comma-separated tokens accepted by
// AddPayment's options parameter (§6).
type PostingOption string

const (
	PostingOptionAdjustAllowable PostingOption = "Adjust Allowable"
	PostingOptionPostDenied      PostingOption = "Post Denied"
	PostingOptionWriteoffBalance PostingOption = "Writeoff Balance"
)

// MoneyEpsilon is the domain's "zero" threshold: balances/payments with
// magnitude strictly less than this are treated as zero (§3, §8).
const MoneyEpsilon = "0.01"
