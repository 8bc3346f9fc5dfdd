package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestStatusOptions(t *testing.T) {
	if len(StatusOptions) == 0 {
		t.Fatal("StatusOptions should not be empty")
	}
	if StatusOptions[0] != "draft" {
		t.Errorf("first status = %q, want draft", StatusOptions[0])
	}
	for _, s := range StatusOptions {
		if !IsValidStatus(s) {
			t.Errorf("IsValidStatus(%q) = false", s)
		}
	}
	if IsValidStatus("archived") {
		t.Error("IsValidStatus(archived) = true")
	}
}

func TestTaxRateOptions(t *testing.T) {
	found := false
	for _, r := range TaxRateOptions {
		if r < 0 || r > 100 {
			t.Errorf("tax rate option %d out of range", r)
		}
		if DefaultTaxRate.Equal(decimal.NewFromInt(int64(r))) {
			found = true
		}
	}
	if !found {
		t.Errorf("default tax rate %s is not offered", DefaultTaxRate)
	}
}

func TestTaxModeOptions(t *testing.T) {
	if len(TaxModeOptions) != 2 {
		t.Fatalf("expected 2 tax modes, got %d", len(TaxModeOptions))
	}
	for _, o := range TaxModeOptions {
		if ParseTaxMode(string(o.Mode)) != o.Mode {
			t.Errorf("tax mode %q does not round-trip through ParseTaxMode", o.Mode)
		}
	}
}
