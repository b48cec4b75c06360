// Package valueobjects contains immutable value objects that represent domain
// concepts without identity. They are compared by their values and validated
// on creation, so invalid money or currency can never enter the domain.
package valueobjects

import (
	"errors"
	"strings"
)

// Currency represents an ISO 4217 currency code.
// Every expense carries exactly one currency; cross-currency arithmetic is
// rejected at the Money level.
type Currency struct {
	code string
}

// Predefined currencies for convenience in tests and defaults.
var (
	USD = Currency{code: "USD"}
	EUR = Currency{code: "EUR"}
	GBP = Currency{code: "GBP"}
	INR = Currency{code: "INR"}
)

// supportedCurrencies is the whitelist of codes the service accepts.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"INR": true,
	"JPY": true,
	"AUD": true,
	"CAD": true,
}

// ErrInvalidCurrency is returned when a currency code is not supported.
var ErrInvalidCurrency = errors.New("invalid currency code")

// NewCurrency creates a Currency after normalizing and validating the code.
//
// Example:
//
//	curr, err := NewCurrency("usd") // -> USD
func NewCurrency(code string) (Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	if !supportedCurrencies[code] {
		return Currency{}, ErrInvalidCurrency
	}

	return Currency{code: code}, nil
}

// MustNewCurrency panics on invalid input. Use only in initialization code
// and tests where an invalid code is a programming error.
func MustNewCurrency(code string) Currency {
	curr, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return curr
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// Equals compares two currencies by code.
func (c Currency) Equals(other Currency) bool {
	return c.code == other.code
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return c.code
}

// IsZero reports whether this is an uninitialized currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}
