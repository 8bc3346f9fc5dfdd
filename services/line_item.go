package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultSection is the section given to items that have none.
const DefaultSection = "General"

// LineItem is one priced row of a cost document.
type LineItem struct {
	ID          string // record id, empty until persisted
	Key         string // stable row key assigned when the row is created
	SortOrder   int
	Description string
	Section     string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal

	LaborPercentage decimal.Decimal
	// LaborCharge is set only when a user typed a charge; it then wins over
	// LaborPercentage until quantity or unit cost change.
	LaborCharge decimal.NullDecimal
}

// NewLineItem returns an empty row in the default section.
func NewLineItem(laborPercentage decimal.Decimal) LineItem {
	return LineItem{
		Key:             uuid.NewString(),
		Section:         DefaultSection,
		Quantity:        decimal.NewFromInt(1),
		UnitCost:        decimal.Zero,
		LaborPercentage: laborPercentage,
	}
}

// NormalizeSection trims a section label and maps blank labels to DefaultSection.
func NormalizeSection(section string) string {
	s := strings.TrimSpace(section)
	if s == "" {
		return DefaultSection
	}
	return s
}

// ItemField names one editable field of a line item.
type ItemField string

const (
	FieldDescription     ItemField = "description"
	FieldSection         ItemField = "section"
	FieldQuantity        ItemField = "quantity"
	FieldUnitCost        ItemField = "unit_cost"
	FieldLaborPercentage ItemField = "labor_percentage"
	FieldLaborCharge     ItemField = "labor_charge"
)

var ErrUnknownField = errors.New("unknown line item field")

// ParseItemField accepts the field names used by the editor forms.
func ParseItemField(s string) (ItemField, error) {
	switch f := ItemField(strings.TrimSpace(strings.ToLower(s))); f {
	case FieldDescription, FieldSection, FieldQuantity, FieldUnitCost, FieldLaborPercentage, FieldLaborCharge:
		return f, nil
	case "material_cost":
		return FieldUnitCost, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// ItemEdit is a single field edit coming from the editor.
type ItemEdit struct {
	Field ItemField
	Value string
}

// ApplyItemEdit returns item with edit applied. Numeric values are coerced
// with ParseAmount. Labor percentage and labor charge are kept consistent:
//
//   - setting the charge stores it as an override and back-computes the
//     percentage (zero when the line amount is zero);
//   - setting the percentage drops any override so the charge re-derives;
//   - changing quantity or unit cost drops the override, keeping the last
//     percentage.
func ApplyItemEdit(item LineItem, edit ItemEdit) (LineItem, error) {
	switch edit.Field {
	case FieldDescription:
		item.Description = strings.TrimSpace(edit.Value)
	case FieldSection:
		item.Section = NormalizeSection(edit.Value)
	case FieldQuantity:
		item.Quantity = ParseAmount(edit.Value)
		item.LaborCharge = decimal.NullDecimal{}
	case FieldUnitCost:
		item.UnitCost = ParseAmount(edit.Value)
		item.LaborCharge = decimal.NullDecimal{}
	case FieldLaborPercentage:
		item.LaborPercentage = ParseAmount(edit.Value)
		item.LaborCharge = decimal.NullDecimal{}
	case FieldLaborCharge:
		charge := ParseAmount(edit.Value)
		item.LaborCharge = decimal.NewNullDecimal(charge)
		item.LaborPercentage = backComputePercentage(charge, LineAmount(item))
	default:
		return item, fmt.Errorf("%w: %q", ErrUnknownField, edit.Field)
	}
	return item, nil
}

func backComputePercentage(charge, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimal.Zero
	}
	return charge.Div(amount).Mul(hundred)
}
