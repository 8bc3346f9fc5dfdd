package services

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		expect string
	}{
		{"zero", "0", "Zero Shillings Only"},
		{"single_digit", "5", "Five Shillings Only"},
		{"teens", "15", "Fifteen Shillings Only"},
		{"hundreds", "500", "Five Hundred Shillings Only"},
		{"grand_total", "986", "Nine Hundred and Eighty Six Shillings Only"},
		{"with_cents", "1345.89", "One Thousand Three Hundred and Forty Five Shillings and Eighty Nine Cents Only"},
		{"cents_only", "0.5", "Zero Shillings and Fifty Cents Only"},
		{"thousands_block", "215000", "Two Hundred and Fifteen Thousand Shillings Only"},
		{"millions", "2000001", "Two Million and One Shillings Only"},
		{"negative", "-20", "Negative Twenty Shillings Only"},
		{"billions_block", "999000000000", "Nine Hundred and Ninety Nine Billion Shillings Only"},
		{"trillions", "2000000000000", "Two Trillion Shillings Only"},
		{"thousand_trillions", "1234000000000000", "One Quadrillion Two Hundred and Thirty Four Trillion Shillings Only"},
		{"quintillion", "1000000000000000005", "One Quintillion and Five Shillings Only"},
		{"past_int64", "2000000000000000000000", "Two Thousand Quintillion Shillings Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountToWords(decimal.RequireFromString(tt.amount), "Shillings")
			if got != tt.expect {
				t.Errorf("AmountToWords(%s) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestAmountToWords_MaxInt64(t *testing.T) {
	got := AmountToWords(decimal.NewFromInt(math.MaxInt64), "Shillings")
	want := "Nine Quintillion Two Hundred and Twenty Three Quadrillion Three Hundred and Seventy Two Trillion " +
		"Thirty Six Billion Eight Hundred and Fifty Four Million Seven Hundred and Seventy Five Thousand " +
		"Eight Hundred and Seven Shillings Only"
	if got != want {
		t.Errorf("AmountToWords(MaxInt64) = %q", got)
	}
}

func TestAmountToWords_NoCurrencyWord(t *testing.T) {
	got := AmountToWords(decimal.NewFromInt(12), "")
	if got != "Twelve Only" {
		t.Errorf("AmountToWords(12, \"\") = %q", got)
	}
}
