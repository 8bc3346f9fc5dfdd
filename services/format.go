package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as "<symbol> 1,234,567.89". The amount is
// rounded with Round2 first and always shows exactly 2 decimal places. An
// empty symbol yields the bare number.
func FormatMoney(amount decimal.Decimal, symbol string) string {
	rounded := Round2(amount)
	negative := rounded.IsNegative()
	raw := rounded.Abs().StringFixed(2)

	// Split into integer and decimal parts.
	parts := strings.SplitN(raw, ".", 2)
	formatted := applyThousandsGrouping(parts[0]) + "." + parts[1]

	if symbol != "" {
		formatted = symbol + " " + formatted
	}
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

// FormatPercent renders a percentage without trailing zeros, e.g. "36.5%".
func FormatPercent(pct decimal.Decimal) string {
	return pct.Round(2).String() + "%"
}

// FormatQuantity renders whole quantities without decimals and fractional
// ones with 2 decimal places.
func FormatQuantity(qty decimal.Decimal) string {
	if qty.Equal(qty.Truncate(0)) {
		return qty.Truncate(0).String()
	}
	return Round2(qty).StringFixed(2)
}

// applyThousandsGrouping inserts a comma between every group of 3 digits,
// counting from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
