package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountToWords spells out an amount for the "amount in words" line of an
// invoice. Cents are spelled out when present.
// Example: 1345.89, "Shillings" → "One Thousand Three Hundred and Forty Five
// Shillings and Eighty Nine Cents Only"
func AmountToWords(amount decimal.Decimal, currencyWord string) string {
	if amount.IsNegative() {
		return "Negative " + AmountToWords(amount.Neg(), currencyWord)
	}

	rounded := Round2(amount)
	whole := rounded.Truncate(0)
	cents := rounded.Sub(whole).Shift(2).IntPart()

	words := "Zero"
	if !whole.IsZero() {
		words = wholeToWords(whole)
	}
	if currencyWord != "" {
		words += " " + currencyWord
	}
	if cents > 0 {
		words += " and " + convertUnder100(cents) + " Cents"
	}
	return words + " Only"
}

var quintillion = decimal.New(1, 18)

// wholeToWords spells a non-negative whole amount. Amounts past the int64
// range are split on quintillions so the remainder always fits.
func wholeToWords(whole decimal.Decimal) string {
	if whole.LessThan(quintillion) {
		return convertToWords(whole.IntPart())
	}

	q, r := whole.QuoRem(quintillion, 0)
	words := wholeToWords(q) + " Quintillion"
	rest := r.IntPart()
	switch {
	case rest == 0:
	case rest < 100:
		words += " and " + convertUnder100(rest)
	default:
		words += " " + convertToWords(rest)
	}
	return words
}

var scales = []struct {
	value int64
	name  string
}{
	{1_000_000_000_000_000, "Quadrillion"},
	{1_000_000_000_000, "Trillion"},
	{1_000_000_000, "Billion"},
	{1_000_000, "Million"},
	{1_000, "Thousand"},
}

func convertToWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string
	for _, s := range scales {
		if n >= s.value {
			parts = append(parts, convertToWords(n/s.value)+" "+s.name)
			n %= s.value
		}
	}

	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
