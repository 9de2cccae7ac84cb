package posting

import (
	"time"

	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/billing/recalc"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// SubmissionOutput mirrors PaymentOutput: the rows appended and the
// line's state after recalculation.
type SubmissionOutput struct {
	Result          Result
	NewTransactions []*ledger.Transaction
	Line            *invoiceline.Line
}

func customerInsuranceIDForPayer(line *invoiceline.Line, submittedTo payer.Type) *string {
	if !submittedTo.IsInsurance() {
		return nil
	}
	return line.CustomerInsuranceIDForSlot(submittedTo.Slot())
}

func insuranceCompanyIDForPayer(line *invoiceline.Line, submittedTo payer.Type) *string {
	if !submittedTo.IsInsurance() {
		return nil
	}
	return line.InsuranceCompanyIDForSlot(submittedTo.Slot())
}

// AddSubmitted appends a Submit transaction for submittedTo and
// recalculates the line (spec 4.E).
func AddSubmitted(line *invoiceline.Line, priorTransactions []*ledger.Transaction, amount decimal.Decimal, submittedTo payer.Type, txDate time.Time, submittedBy, batch, userID string) *SubmissionOutput {
	customerInsuranceID := customerInsuranceIDForPayer(line, submittedTo)
	insuranceCompanyID := insuranceCompanyIDForPayer(line, submittedTo)

	tx := newTx(line, insuranceCompanyID, customerInsuranceID, types.TransactionSubmit, amount, txDate, "", batch, userID)
	ledgerSoFar := append(append([]*ledger.Transaction{}, priorTransactions...), tx)

	return &SubmissionOutput{
		Result:          ResultSuccess,
		NewTransactions: []*ledger.Transaction{tx},
		Line:            recalc.Recalculate(line, ledgerSoFar),
	}
}

// AddAutoSubmit resolves the payer from insuranceCompanyID across the
// line's four insurer slots and inserts exactly one Auto Submit
// transaction for (line, insuranceCompany); a second call for the same
// pair is rejected as a duplicate.
func AddAutoSubmit(line *invoiceline.Line, priorTransactions []*ledger.Transaction, insuranceCompanyID *string, txDate time.Time, userID string) *SubmissionOutput {
	owner, customerInsuranceID, ok := resolvePayer(line, insuranceCompanyID)
	if !ok {
		return &SubmissionOutput{Result: ResultAutosubmittedCompanyIDWrong}
	}
	if !owner.IsInsurance() {
		return &SubmissionOutput{Result: ResultAutosubmittedPayerWrong}
	}
	if len(priorOfKind(priorTransactions, types.TransactionAutoSubmit, customerInsuranceID)) > 0 {
		return &SubmissionOutput{Result: ResultTransactionAlreadyExists}
	}

	tx := newTx(line, insuranceCompanyID, customerInsuranceID, types.TransactionAutoSubmit, decimal.Zero, txDate, "", "", userID)
	ledgerSoFar := append(append([]*ledger.Transaction{}, priorTransactions...), tx)

	return &SubmissionOutput{
		Result:          ResultSuccess,
		NewTransactions: []*ledger.Transaction{tx},
		Line:            recalc.Recalculate(line, ledgerSoFar),
	}
}

// ReflagLine appends one Voided Submission for line if its current
// payer has a Submits bit set, reopening submission state without
// mutating history. It returns nil transactions when there is nothing
// to reopen.
func ReflagLine(line *invoiceline.Line, priorTransactions []*ledger.Transaction, txDate time.Time, userID string) *SubmissionOutput {
	if line.CurrentPayer == payer.None || !line.Submits.Has(line.CurrentPayer) {
		return &SubmissionOutput{Result: ResultSuccess, Line: line}
	}

	customerInsuranceID := customerInsuranceIDForPayer(line, line.CurrentPayer)
	insuranceCompanyID := insuranceCompanyIDForPayer(line, line.CurrentPayer)

	tx := newTx(line, insuranceCompanyID, customerInsuranceID, types.TransactionVoidedSubmission, decimal.Zero, txDate, "", "", userID)
	ledgerSoFar := append(append([]*ledger.Transaction{}, priorTransactions...), tx)

	return &SubmissionOutput{
		Result:          ResultSuccess,
		NewTransactions: []*ledger.Transaction{tx},
		Line:            recalc.Recalculate(line, ledgerSoFar),
	}
}

// Reflag runs ReflagLine over every line in lines, returning the
// combined set of outputs that actually produced a new transaction.
func Reflag(lines []*invoiceline.Line, ledgerByLine map[string][]*ledger.Transaction, txDate time.Time, userID string) []*SubmissionOutput {
	var out []*SubmissionOutput
	for _, l := range lines {
		res := ReflagLine(l, ledgerByLine[l.ID], txDate, userID)
		if len(res.NewTransactions) > 0 {
			out = append(out, res)
		}
	}
	return out
}

// PendingSubmissionAmount computes the amount owed by line's current
// payer for an Invoice_UpdatePendingSubmissions insertion: the full
// Billable amount for Ins1, the remaining balance net of payments and
// writeoffs for every other payer.
func PendingSubmissionAmount(line *invoiceline.Line) decimal.Decimal {
	if line.CurrentPayer == payer.Ins1 {
		return line.BillableAmount
	}
	return line.BillableAmount.Sub(line.PaymentAmount).Sub(line.WriteoffAmount)
}

// InvoiceUpdatePendingSubmissions inserts one Pending Submission per
// line whose current payer has no Pending Submission bit set yet.
func InvoiceUpdatePendingSubmissions(lines []*invoiceline.Line, ledgerByLine map[string][]*ledger.Transaction, txDate time.Time, userID string) []*SubmissionOutput {
	var out []*SubmissionOutput
	for _, line := range lines {
		if line.CurrentPayer == payer.None {
			continue
		}
		if line.Pendings.Has(line.CurrentPayer) {
			continue
		}

		customerInsuranceID := customerInsuranceIDForPayer(line, line.CurrentPayer)
		insuranceCompanyID := insuranceCompanyIDForPayer(line, line.CurrentPayer)
		amount := PendingSubmissionAmount(line)

		tx := newTx(line, insuranceCompanyID, customerInsuranceID, types.TransactionPendingSubmission, amount, txDate, "", "", userID)
		prior := ledgerByLine[line.ID]
		ledgerSoFar := append(append([]*ledger.Transaction{}, prior...), tx)

		out = append(out, &SubmissionOutput{
			Result:          ResultSuccess,
			NewTransactions: []*ledger.Transaction{tx},
			Line:            recalc.Recalculate(line, ledgerSoFar),
		})
	}
	return out
}
