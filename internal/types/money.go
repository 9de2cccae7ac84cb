package types

import "github.com/shopspring/decimal"

// MoneyScale is the fixed number of fraction digits every amount in the
// engine is rounded to. The domain has no multi-currency support (§1
// Non-goals), so this is a single global constant rather than a
// per-currency lookup.
const MoneyScale int32 = 2

var moneyEpsilon = decimal.RequireFromString(MoneyEpsilon)

// RoundMoney rounds d to the domain's fixed money scale (2 decimal
// places), using the same rounding the ledger's cents-exact invariant
// assumes throughout.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// IsZeroMoney reports whether d's magnitude is below the domain's zero
// threshold (spec: "the comparator <0.01 defines zero").
func IsZeroMoney(d decimal.Decimal) bool {
	return d.Abs().LessThan(moneyEpsilon)
}

// IsNonZeroMoney is the complement of IsZeroMoney, spelled out at call
// sites where "has a real payment" reads better than a negation.
func IsNonZeroMoney(d decimal.Decimal) bool {
	return !IsZeroMoney(d)
}

// BalanceClearsPayer reports whether balance is below the domain's
// zero threshold under the literal plain "<0.01" comparator (no
// absolute value): an overpaid line's negative balance clears the
// current payer to None just as readily as a balance that has settled
// to exactly zero.
func BalanceClearsPayer(balance decimal.Decimal) bool {
	return balance.LessThan(moneyEpsilon)
}
