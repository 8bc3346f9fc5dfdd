package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
)

// Round2 rounds to 2 decimal places, halves away from zero, so a negative
// amount rounds to the mirror of its positive value. Apply it once, when a
// value is persisted or displayed, never to intermediate results.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount coerces user input into a decimal. Blank or non-numeric input
// is treated as zero. Thousands separators and surrounding spaces are ignored.
func ParseAmount(raw string) decimal.Decimal {
	d, _ := ParseOptionalAmount(raw)
	return d
}

// ParseOptionalAmount is ParseAmount for fields that may be left unset, such
// as a labor charge override. ok is false for blank or non-numeric input.
func ParseOptionalAmount(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// percentOf returns amount * pct / 100.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}
