// Package valueobjects - Money is the core value object of the split engine.
// All monetary amounts are fixed-point with a scale of 2 (cents), and every
// rounding operation is explicit half-up. Equality is an exact integer
// compare; floating point never touches money.
package valueobjects

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// MoneyScale is the decimal scale for monetary amounts.
const MoneyScale = 2

// moneyUnit is 10^MoneyScale, the number of minor units per major unit.
const moneyUnit = 100

// Money represents a signed monetary amount in minor units (cents) with its
// currency. Negative values are legal: pairwise balances and ADJUSTMENT
// deltas carry direction in their sign.
//
// Money is immutable; all operations return new instances.
type Money struct {
	cents    int64
	currency Currency
}

// Common domain errors for Money operations.
var (
	ErrCurrencyMismatch = errors.New("cannot operate on different currencies")
	ErrInvalidAmount    = errors.New("invalid amount format")
	ErrDivisionByZero   = errors.New("division by zero")
)

// NewMoney parses a decimal string into Money at scale 2.
// Inputs with more than two decimal places are rounded half-up
// (away from zero), matching the rounding used everywhere else.
//
// Example:
//
//	m, err := NewMoney("100.50", USD)
//	n, err := NewMoney("-3.333", USD) // -> -3.33
func NewMoney(amountStr string, currency Currency) (Money, error) {
	amountStr = strings.TrimSpace(amountStr)
	if amountStr == "" {
		return Money{}, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	rat := new(big.Rat)
	if _, ok := rat.SetString(amountStr); !ok {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amountStr)
	}

	cents, err := ratToCents(rat)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amountStr)
	}

	return Money{cents: cents, currency: currency}, nil
}

// NewMoneyFromCents creates Money directly from minor units.
// This is the storage format: amounts live in the database as BIGINT cents.
func NewMoneyFromCents(cents int64, currency Currency) Money {
	return Money{cents: cents, currency: currency}
}

// Zero creates a zero amount for the given currency.
func Zero(currency Currency) Money {
	return Money{cents: 0, currency: currency}
}

// Currency returns the currency of this money.
func (m Money) Currency() Currency {
	return m.currency
}

// Cents returns the amount in minor units.
func (m Money) Cents() int64 {
	return m.cents
}

// String returns a human-readable representation, e.g. "100.50 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal(), m.currency.Code())
}

// Decimal returns the amount as a plain decimal string, e.g. "-3.33".
func (m Money) Decimal() string {
	c := m.cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/moneyUnit, c%moneyUnit)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{cents: m.cents + other.cents, currency: m.currency}, nil
}

// Subtract returns the difference of two amounts. The result may be negative.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.currency.Equals(other.currency) {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{cents: m.cents - other.cents, currency: m.currency}, nil
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money {
	return Money{cents: -m.cents, currency: m.currency}
}

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.cents < 0 {
		return m.Negate()
	}
	return m
}

// DivideBy divides the amount by an integer count, rounding the quotient
// half-up. The residue that rounding produces is NOT discarded here; the
// split engine places it on the last participant so that the per-participant
// amounts still sum to the original total.
func (m Money) DivideBy(n int64) (Money, error) {
	if n == 0 {
		return Money{}, ErrDivisionByZero
	}
	return Money{cents: divRoundHalfUp(m.cents, n), currency: m.currency}, nil
}

// MultiplyRatio computes amount * num / den with a single half-up rounding
// at the end, avoiding the double rounding of a separate multiply then
// divide. Used by the CUSTOM_RATIO strategy.
func (m Money) MultiplyRatio(num, den int64) (Money, error) {
	if den == 0 {
		return Money{}, ErrDivisionByZero
	}

	// The intermediate product can exceed int64 for large amounts, so the
	// multiply-divide runs through big.Int.
	p := new(big.Int).Mul(big.NewInt(m.cents), big.NewInt(num))
	cents := bigDivRoundHalfUp(p, big.NewInt(den))
	if !cents.IsInt64() {
		return Money{}, fmt.Errorf("%w: ratio product out of range", ErrInvalidAmount)
	}

	return Money{cents: cents.Int64(), currency: m.currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// GreaterThan reports m > other.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.cents > other.cents, nil
}

// GreaterThanOrEqual reports m >= other.
func (m Money) GreaterThanOrEqual(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.cents >= other.cents, nil
}

// LessThan reports m < other.
func (m Money) LessThan(other Money) (bool, error) {
	if !m.currency.Equals(other.currency) {
		return false, ErrCurrencyMismatch
	}
	return m.cents < other.cents, nil
}

// Equals reports exact equality of amount and currency.
func (m Money) Equals(other Money) bool {
	return m.currency.Equals(other.currency) && m.cents == other.cents
}

// divRoundHalfUp divides a by b rounding half away from zero.
func divRoundHalfUp(a, b int64) int64 {
	return bigDivRoundHalfUp(big.NewInt(a), big.NewInt(b)).Int64()
}

// bigDivRoundHalfUp divides a by b rounding half away from zero.
// Sign handling mirrors BigDecimal's HALF_UP mode.
func bigDivRoundHalfUp(a, b *big.Int) *big.Int {
	negative := (a.Sign() < 0) != (b.Sign() < 0)

	absA := new(big.Int).Abs(a)
	absB := new(big.Int).Abs(b)

	q, r := new(big.Int).QuoRem(absA, absB, new(big.Int))

	// Round up when the remainder is at least half the divisor.
	r.Mul(r, big.NewInt(2))
	if r.Cmp(absB) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	if negative {
		q.Neg(q)
	}
	return q
}

// ratToCents converts an exact rational to scale-2 minor units, half-up.
func ratToCents(rat *big.Rat) (int64, error) {
	scaled := new(big.Rat).Mul(rat, big.NewRat(moneyUnit, 1))
	cents := bigDivRoundHalfUp(scaled.Num(), scaled.Denom())
	if !cents.IsInt64() {
		return 0, errors.New("amount out of range")
	}
	return cents.Int64(), nil
}
