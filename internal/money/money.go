// Package money pins the monetary representation and rounding rules used
// across the billing engine. All amounts are fixed-point decimals; rounding
// is half-away-from-zero at two places, applied at each computation boundary
// rather than accumulated unrounded.
package money

import "github.com/shopspring/decimal"

// Decimal is the monetary scalar. Never use float64 for money.
type Decimal = decimal.Decimal

var zero = decimal.Zero

// Zero returns the zero amount.
func Zero() Decimal { return zero }

// Round2 rounds to two decimal places, half away from zero.
func Round2(d Decimal) Decimal { return d.Round(2) }

// New builds an amount from an integer value and exponent,
// e.g. New(1995, -2) == 19.95.
func New(value int64, exp int32) Decimal { return decimal.New(value, exp) }

// FromInt builds a whole-dollar amount.
func FromInt(v int64) Decimal { return decimal.NewFromInt(v) }

// MustFromString parses a decimal literal and panics on malformed input.
// Intended for seed data and tests where the literal is known good.
func MustFromString(s string) Decimal { return decimal.RequireFromString(s) }

// Sum adds amounts without intermediate rounding.
func Sum(amounts ...Decimal) Decimal {
	total := zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
