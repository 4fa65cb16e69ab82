// Package core holds the ledger domain: expenses, money, categories and
// the validation rules shared by every store backend.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// Keeps cents well inside int64 after summing.
	maxCents = decimal.NewFromInt(1_000_000_000_000_000)
)

// Exponent bounds for parsed amounts. Rounding cost grows with the
// exponent, so values outside them are rejected before any arithmetic.
const (
	minExponent = -20
	maxExponent = 20
)

// ParseAmount converts decimal text to Money with half-up rounding to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted, optionally
// prefixed with a dollar sign. Negative and zero amounts are rejected.
//
// Examples:
//
//	ParseAmount("4.50")   -> {450}, nil
//	ParseAmount("$4,50")  -> {450}, nil
//	ParseAmount("1.005")  -> {101}, nil
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !inExponentRange(d) {
		return Money{}, ErrInvalidAmount
	}
	return fromDecimal(d)
}

// ParseBudget is like ParseAmount but accepts zero, which clears the budget.
func ParseBudget(s string) (Money, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || !inExponentRange(d) {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrNegativeBudget
	}
	cents := d.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// MoneyFromFloat converts a JSON number to Money, rounding half-up to cents.
func MoneyFromFloat(f float64) (Money, error) {
	return fromDecimal(decimal.NewFromFloat(f))
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if !inExponentRange(d) {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Mul(hundred).Round(0)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Cents: cents.IntPart()}
	return m, m.Validate()
}

func inExponentRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= minExponent && exp <= maxExponent
}

// Decimal returns the amount in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Dollars returns the amount as a float64 for display purposes.
// Use cents for calculations.
func (m Money) Dollars() float64 {
	return m.Decimal().InexactFloat64()
}

// String formats the amount as USD, e.g. "$6.50" or "-$1.00".
func (m Money) String() string {
	if m.Cents < 0 {
		return "-$" + Money{Cents: -m.Cents}.Decimal().StringFixed(2)
	}
	return "$" + m.Decimal().StringFixed(2)
}
