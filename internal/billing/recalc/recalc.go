// Package recalc implements the Recalculator (the core algorithm): it
// reduces one invoice line's ordered ledger transactions into the
// line's authoritative projection — balance, current payer, submit
// state, and the Submits/Pendings/Payments/ZeroPayments bitsets.
//
// Recalculate is a pure function: given the same line and the same
// ordered transaction slice it always returns the same projection, so
// running it twice in a row is a no-op. Every poster (payment,
// submission) appends ledger rows first and then calls Recalculate;
// neither poster maintains any of these fields itself.
package recalc

import (
	"github.com/ariesone/dme-billing-engine/internal/billing/payer"
	"github.com/ariesone/dme-billing-engine/internal/domain/invoiceline"
	"github.com/ariesone/dme-billing-engine/internal/domain/ledger"
	"github.com/ariesone/dme-billing-engine/internal/types"
	"github.com/shopspring/decimal"
)

// accumulator holds the running state of one pass over a line's
// ledger, indexed by payer.
type accumulator struct {
	payments     map[payer.Type]decimal.Decimal
	writeoff     decimal.Decimal
	deductible   decimal.Decimal
	proposed     payer.Type // payer.None means unset
	zeroPayments payer.Set
	submits      payer.Set
	pendings     payer.Set
	submitDates  invoiceline.PayerDates
}

// Recalculate reduces txs (already ordered ascending by ID — ID order
// is insertion order for ULIDs) into line's projection fields and
// returns a new *invoiceline.Line carrying the result. Every field
// outside the projection (BillableAmount, modifiers, eligibility
// flags, snapshot IDs, BaseModel, Version) is copied unchanged from
// line; callers persist the returned line.
func Recalculate(line *invoiceline.Line, txs []*ledger.Transaction) *invoiceline.Line {
	out := *line

	acc := &accumulator{
		payments: make(map[payer.Type]decimal.Decimal),
		writeoff: decimal.Zero,
	}

	eligible := line.EligiblePayers()

	for _, tx := range txs {
		owner := line.OwnerForCustomerInsuranceID(tx.CustomerInsuranceID)
		applyTransaction(acc, eligible, owner, tx)
	}

	totalPayment := sumPayments(acc.payments)

	out.PaymentAmount = types.RoundMoney(totalPayment)
	out.WriteoffAmount = types.RoundMoney(acc.writeoff)
	out.DeductibleAmount = types.RoundMoney(acc.deductible)
	out.Balance = types.RoundMoney(line.BillableAmount.Sub(totalPayment).Sub(acc.writeoff))

	out.Submits = acc.submits
	out.Pendings = acc.pendings
	out.SubmitDates = acc.submitDates
	out.ZeroPayments = acc.zeroPayments

	current := chooseCurrentPayer(out.Balance, acc, eligible)
	out.CurrentPayer = current
	out.CurrentCustomerInsuranceID = idForSlot(current, line.CustomerInsuranceIDForSlot)
	out.CurrentInsuranceCompanyID = idForSlot(current, line.InsuranceCompanyIDForSlot)

	out.Submitted = acc.submits.Has(current)
	out.SubmittedDate = acc.submitDates.Get(current)

	out.Payments = paymentsBitset(acc)

	return &out
}

func idForSlot(p payer.Type, pick func(int) *string) *string {
	if !p.IsInsurance() {
		return nil
	}
	return pick(p.Slot())
}

func applyTransaction(acc *accumulator, eligible payer.Set, owner payer.Type, tx *ledger.Transaction) {
	switch tx.Kind {
	case types.TransactionContractualWriteoff, types.TransactionWriteoff:
		acc.writeoff = acc.writeoff.Add(tx.Amount)

	case types.TransactionSubmit, types.TransactionAutoSubmit:
		acc.submits = acc.submits.Add(owner)
		t := tx.TransactionDate
		acc.submitDates.Set(owner, &t)

	case types.TransactionVoidedSubmission:
		acc.submits = acc.submits.Remove(owner)
		acc.submitDates.Set(owner, nil)

	case types.TransactionPendingSubmission:
		acc.pendings = acc.pendings.Add(owner)

	case types.TransactionChangeCurrentPayee:
		if owner == payer.Patient || eligible.Has(owner) {
			acc.proposed = owner
		}

	case types.TransactionPayment:
		if types.IsZeroMoney(tx.Amount) {
			acc.zeroPayments = acc.zeroPayments.Add(owner)
		} else {
			acc.zeroPayments = acc.zeroPayments.Remove(owner)
		}
		acc.payments[owner] = acc.payments[owner].Add(tx.Amount)
		if acc.proposed != payer.None && acc.proposed == owner && !tx.Amount.IsNegative() {
			acc.proposed = payer.None
		}

	case types.TransactionDeductible:
		if owner == payer.Ins1 {
			acc.deductible = tx.Amount
		}

	case types.TransactionAdjustAllowable:
		// Posted only; never reduced into the projection.
	}
}

// chooseCurrentPayer implements the final-projection payer selection:
// a balance below 0.01 always clears to None — including a negative
// balance from an overpayment, per the literal plain "<0.01"
// comparator, not an absolute-value one; an explicit Change Current
// Payee wins next; otherwise the lowest-indexed eligible insurance
// slot with no meaningful payment yet and no zero-payment bit set
// becomes current, falling through to Patient as the terminal payer.
func chooseCurrentPayer(balance decimal.Decimal, acc *accumulator, eligible payer.Set) payer.Type {
	if types.BalanceClearsPayer(balance) {
		return payer.None
	}
	if acc.proposed != payer.None {
		return acc.proposed
	}
	for _, k := range payer.InsuranceSlotsInOrder {
		if !eligible.Has(k) {
			continue
		}
		if acc.zeroPayments.Has(k) {
			continue
		}
		if types.IsZeroMoney(acc.payments[k]) {
			return k
		}
	}
	return payer.Patient
}

// paymentsBitset computes the Payments column: set for an insurance
// slot with a meaningful payment or an explicit zero-payment posting;
// set for Patient only on a meaningful payment.
func paymentsBitset(acc *accumulator) payer.Set {
	var s payer.Set
	for _, k := range payer.InsuranceSlotsInOrder {
		p := acc.payments[k]
		if types.IsNonZeroMoney(p) || acc.zeroPayments.Has(k) {
			s = s.Add(k)
		}
	}
	if types.IsNonZeroMoney(acc.payments[payer.Patient]) {
		s = s.Add(payer.Patient)
	}
	return s
}

func sumPayments(payments map[payer.Type]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range payments {
		total = total.Add(v)
	}
	return total
}
