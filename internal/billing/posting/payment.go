// Package posting implements the Payment Poster (4.D) and Submission
// Poster (4.E): the only code paths allowed to append ledger
// transactions. Both posters are pure functions of their inputs plus
// the line's prior ledger — no repository calls happen here. The
// caller (internal/service) is responsible for loading the prior
// ledger and the line inside one database transaction, calling these
// functions, and persisting the returned transactions and line inside
// that same transaction (spec §5: posters never partially commit).
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

// PaymentInput is everything AddPayment needs, already resolved by the
// caller (spec step 1: "resolve the Customer, Invoice, payer slot,
// eligibility, and amounts").
type PaymentInput struct {
	Line               *invoiceline.Line
	InsuranceCompanyID *string // nil posts to Patient
	TxDate             time.Time
	Extra              string
	Comments           string
	Options            []types.PostingOption
	UserID             string

	// PriorTransactions must already be ordered ascending by ID.
	PriorTransactions []*ledger.Transaction

	// PolicyBasis is the resolved policy's Basis for the matched
	// payer slot; nil for Patient or when no policy applies.
	PolicyBasis *types.PolicyBasis
	Hardship    bool
}

// PaymentOutput is the poster's effect: the ledger rows to append (in
// the order they must be appended) and the line's final recalculated
// state after every row lands.
type PaymentOutput struct {
	Result       Result
	NewTransactions []*ledger.Transaction
	Line         *invoiceline.Line
}

func hasOption(opts []types.PostingOption, want types.PostingOption) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

func idsEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// resolvePayer matches insuranceCompanyID against the line's four
// insurer snapshots, returning the payer slot and its CustomerInsuranceID.
// A nil insuranceCompanyID always resolves to Patient.
func resolvePayer(line *invoiceline.Line, insuranceCompanyID *string) (payer.Type, *string, bool) {
	if insuranceCompanyID == nil {
		return payer.Patient, nil, true
	}
	for slot := 1; slot <= 4; slot++ {
		id := line.InsuranceCompanyIDForSlot(slot)
		if id != nil && *id == *insuranceCompanyID {
			return payer.FromSlot(slot), line.CustomerInsuranceIDForSlot(slot), true
		}
	}
	return payer.None, nil, false
}

func priorOfKind(txs []*ledger.Transaction, kind types.TransactionKind, customerInsuranceID *string) []*ledger.Transaction {
	var out []*ledger.Transaction
	for _, tx := range txs {
		if tx.Kind == kind && idsEqual(tx.CustomerInsuranceID, customerInsuranceID) {
			out = append(out, tx)
		}
	}
	return out
}

// checkNumberConflict implements the de-duplication precondition for
// automated 835 posting: a prior Denied/Payment row for this (line,
// payer) with the same check number but a different posting guid.
func checkNumberConflict(txs []*ledger.Transaction, customerInsuranceID *string, checkNumber, postingGuid string) bool {
	if checkNumber == "" || postingGuid == "" {
		return false
	}
	for _, tx := range txs {
		if tx.Kind != types.TransactionDenied && tx.Kind != types.TransactionPayment {
			continue
		}
		if !idsEqual(tx.CustomerInsuranceID, customerInsuranceID) {
			continue
		}
		prior := ParseExtra(tx.Extra)
		if prior.CheckNumber == checkNumber && prior.PostingGuid != postingGuid {
			return true
		}
	}
	return false
}

func newTx(line *invoiceline.Line, insuranceCompanyID, customerInsuranceID *string, kind types.TransactionKind, amount decimal.Decimal, txDate time.Time, extra, comments, userID string) *ledger.Transaction {
	return &ledger.Transaction{
		ID: types.GenerateID(),
		// CustomerID is filled in by the caller, which already has the
		// invoice loaded; the poster only ever sees the line.
		InvoiceID:           line.InvoiceID,
		InvoiceLineID:       line.ID,
		InsuranceCompanyID:  insuranceCompanyID,
		CustomerInsuranceID: customerInsuranceID,
		Kind:                kind,
		Amount:              types.RoundMoney(amount),
		TransactionDate:     txDate,
		Extra:               extra,
		Comments:            comments,
		CreatedBy:           userID,
		CreatedAt:           txDate,
	}
}

// AddPayment runs the eight-step payment posting sequence (spec 4.D).
func AddPayment(in PaymentInput) *PaymentOutput {
	if in.Line == nil {
		return &PaymentOutput{Result: ResultInvoiceDetailsIDWrong}
	}

	owner, customerInsuranceID, ok := resolvePayer(in.Line, in.InsuranceCompanyID)
	if !ok {
		return &PaymentOutput{Result: ResultInsuranceCompanyIDWrong}
	}

	ex := ParseExtra(in.Extra)
	if ex.Paid == nil {
		return &PaymentOutput{Result: ResultPaidAmountNotSpecified}
	}

	if checkNumberConflict(in.PriorTransactions, customerInsuranceID, ex.CheckNumber, ex.PostingGuid) {
		return &PaymentOutput{Result: ResultCheckNumberConflict(ex.CheckNumber)}
	}

	var appended []*ledger.Transaction
	ledgerSoFar := append([]*ledger.Transaction{}, in.PriorTransactions...)
	allowable := in.Line.AllowableAmount

	add := func(tx *ledger.Transaction) {
		appended = append(appended, tx)
		ledgerSoFar = append(ledgerSoFar, tx)
	}

	isPrimary := owner == payer.Ins1

	if hasOption(in.Options, types.PostingOptionAdjustAllowable) && isPrimary && ex.Allowable != nil {
		if types.IsNonZeroMoney(allowable.Sub(*ex.Allowable)) && len(priorOfKind(ledgerSoFar, types.TransactionAdjustAllowable, customerInsuranceID)) == 0 {
			add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionAdjustAllowable, *ex.Allowable, in.TxDate, in.Extra, in.Comments, in.UserID))
			allowable = *ex.Allowable
		}
	}

	if hasOption(in.Options, types.PostingOptionPostDenied) && types.IsZeroMoney(*ex.Paid) {
		add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionDenied, decimal.Zero, in.TxDate, in.Extra, in.Comments, in.UserID))
	} else {
		add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionPayment, *ex.Paid, in.TxDate, in.Extra, in.Comments, in.UserID))
	}

	if owner.IsInsurance() {
		if ex.Sequestration != nil && types.IsNonZeroMoney(*ex.Sequestration) {
			add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionWriteoff, *ex.Sequestration, in.TxDate, in.Extra, "Sequestration Writeoff", in.UserID))
		}

		if ex.ContractualWriteoff != nil {
			if len(priorOfKind(ledgerSoFar, types.TransactionContractualWriteoff, customerInsuranceID)) == 0 {
				add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionContractualWriteoff, *ex.ContractualWriteoff, in.TxDate, in.Extra, in.Comments, in.UserID))
			}
		} else if isPrimary && in.PolicyBasis != nil && *in.PolicyBasis == types.PolicyBasisAllowed {
			gap := in.Line.BillableAmount.Sub(allowable)
			if types.IsNonZeroMoney(gap) && len(priorOfKind(ledgerSoFar, types.TransactionContractualWriteoff, customerInsuranceID)) == 0 {
				add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionContractualWriteoff, gap, in.TxDate, in.Extra, in.Comments, in.UserID))
			}
		}

		if ex.Deductible != nil && types.IsNonZeroMoney(*ex.Deductible) && len(priorOfKind(ledgerSoFar, types.TransactionDeductible, customerInsuranceID)) == 0 {
			add(newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionDeductible, *ex.Deductible, in.TxDate, in.Extra, in.Comments, in.UserID))
		}
	}

	line := recalc.Recalculate(in.Line, ledgerSoFar)

	writeoffBalance := hasOption(in.Options, types.PostingOptionWriteoffBalance)
	hardshipWriteoff := in.Hardship && line.CurrentPayer == payer.Patient

	if (writeoffBalance || hardshipWriteoff) && types.IsNonZeroMoney(line.Balance) {
		comment := "Wrote off by " + in.UserID
		if hardshipWriteoff && !writeoffBalance {
			comment = "Hardship Writeoff"
		}
		tx := newTx(in.Line, in.InsuranceCompanyID, customerInsuranceID, types.TransactionWriteoff, line.Balance, in.TxDate, "", comment, in.UserID)
		add(tx)
		line = recalc.Recalculate(in.Line, ledgerSoFar)
	}

	return &PaymentOutput{
		Result:          ResultSuccess,
		NewTransactions: appended,
		Line:            line,
	}
}
