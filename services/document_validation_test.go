package services

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CostDocument)
		want   []string
	}{
		{"valid", func(*CostDocument) {}, nil},
		{"no_items", func(d *CostDocument) { d.Items = nil }, []string{"Add at least one line item"}},
		{"blank_description", func(d *CostDocument) { d.Items[0].Description = "  " },
			[]string{"Item 1: description is required"}},
		{"zero_quantity", func(d *CostDocument) { d.Items[0].Quantity = decimal.Zero },
			[]string{"Item 1: quantity must be greater than zero"}},
		{"negative_cost", func(d *CostDocument) { d.Items[0].UnitCost = dec("-1") },
			[]string{"Item 1: unit cost cannot be negative"}},
		{"negative_labor", func(d *CostDocument) { d.Items[0].LaborPercentage = dec("-1") },
			[]string{"Item 1: labor percentage cannot be negative"}},
		{"negative_override", func(d *CostDocument) { d.Items[0].LaborCharge = decimal.NewNullDecimal(dec("-5")) },
			[]string{"Item 1: labor charge cannot be negative"}},
		{"tax_rate", func(d *CostDocument) { d.TaxRate = dec("101") }, []string{"Tax rate must be between 0 and 100"}},
		{"unknown_status", func(d *CostDocument) { d.Status = "archived" },
			[]string{"Status must be one of draft, sent, accepted, paid, cancelled"}},
		{"negative_discount", func(d *CostDocument) { d.DiscountAmount = dec("-1") }, []string{"Discount cannot be negative"}},
		{"discount_exceeds_total", func(d *CostDocument) { d.DiscountAmount = dec("986.01") },
			[]string{"Discount cannot exceed the document total"}},
		{"discount_equals_total", func(d *CostDocument) { d.DiscountAmount = dec("986") }, nil},
		{"collects_all", func(d *CostDocument) {
			d.Items[0].Description = ""
			d.Items[0].Quantity = dec("-2")
		}, []string{"Item 1: description is required", "Item 1: quantity must be greater than zero"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDocument(KindQuote)
			tt.modify(&doc)
			if diff := cmp.Diff(tt.want, ValidateDocument(doc)); diff != "" {
				t.Errorf("ValidateDocument mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidationError_Unwraps(t *testing.T) {
	err := error(&ValidationError{Problems: []string{"a", "b"}})
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError does not unwrap to ErrValidation")
	}
	if err.Error() != "document failed validation: a; b" {
		t.Errorf("Error() = %q", err.Error())
	}
}
