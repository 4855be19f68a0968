package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount rendered with two decimal places.
type Money string

// NewMoney formats d with two decimal places.
func NewMoney(d decimal.Decimal) Money {
	return Money(d.StringFixed(2))
}

// ParseAmount parses a stored monetary string. Empty or malformed input
// yields zero and ok=false.
func ParseAmount(s string) (d decimal.Decimal, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountTolerance is the allowed difference when checking totals.
var AmountTolerance = decimal.RequireFromString("0.01")

// ApproxEqual reports whether a and b differ by at most AmountTolerance.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(AmountTolerance)
}
