package services

import (
	"errors"
	"fmt"
	"strings"
)

var ErrValidation = errors.New("document failed validation")

// ValidationError carries every problem found in a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidateDocument checks a document before it is saved and returns a
// human-readable message per problem. An empty result means the document can
// be persisted.
func ValidateDocument(doc CostDocument) []string {
	var problems []string

	if len(doc.Items) == 0 {
		problems = append(problems, "Add at least one line item")
	}

	for i, item := range doc.Items {
		row := fmt.Sprintf("Item %d", i+1)
		if strings.TrimSpace(item.Description) == "" {
			problems = append(problems, row+": description is required")
		}
		if !item.Quantity.IsPositive() {
			problems = append(problems, row+": quantity must be greater than zero")
		}
		if item.UnitCost.IsNegative() {
			problems = append(problems, row+": unit cost cannot be negative")
		}
		if item.LaborPercentage.IsNegative() {
			problems = append(problems, row+": labor percentage cannot be negative")
		}
		if item.LaborCharge.Valid && item.LaborCharge.Decimal.IsNegative() {
			problems = append(problems, row+": labor charge cannot be negative")
		}
	}

	if doc.Status != "" && !IsValidStatus(doc.Status) {
		problems = append(problems, fmt.Sprintf("Status must be one of %s", strings.Join(StatusOptions, ", ")))
	}
	if doc.TaxRate.IsNegative() || doc.TaxRate.GreaterThan(hundred) {
		problems = append(problems, "Tax rate must be between 0 and 100")
	}
	if doc.DiscountAmount.IsNegative() {
		problems = append(problems, "Discount cannot be negative")
	}

	if len(problems) == 0 {
		if totals := ComputeTotals(doc); totals.GrandTotal.IsNegative() {
			problems = append(problems, "Discount cannot exceed the document total")
		}
	}

	return problems
}
