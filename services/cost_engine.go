// Package services holds the cost engine for invoices, quotes and templates,
// plus the persistence, numbering, formatting and export helpers built on it.
package services

import (
	"github.com/shopspring/decimal"
)

// DefaultLaborPercentage is the labor rate given to new line items and used by
// flat-rate section labor when no rate is supplied. The legacy editors used 36
// in one screen and 36.5 in another; this is the single value both now share.
// Deployments override it through costing.default_labor_percentage.
var DefaultLaborPercentage = decimal.RequireFromString("36.5")

// DefaultTaxRate is Kenyan VAT.
var DefaultTaxRate = decimal.NewFromInt(16)

// LineAmount returns quantity * unit cost.
func LineAmount(item LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.UnitCost)
}

// LaborCharge returns the explicit override when one is set, otherwise the
// line amount multiplied by the item's labor percentage.
func LaborCharge(item LineItem) decimal.Decimal {
	if item.LaborCharge.Valid {
		return item.LaborCharge.Decimal
	}
	return percentOf(LineAmount(item), item.LaborPercentage)
}

// SectionSubtotal sums LineAmount over the items in section.
func SectionSubtotal(items []LineItem, section string) decimal.Decimal {
	name := NormalizeSection(section)
	total := decimal.Zero
	for _, item := range items {
		if NormalizeSection(item.Section) == name {
			total = total.Add(LineAmount(item))
		}
	}
	return total
}

// SectionLaborFlat applies one labor percentage to the whole section subtotal.
// A nil pct means DefaultLaborPercentage.
func SectionLaborFlat(items []LineItem, section string, pct *decimal.Decimal) decimal.Decimal {
	rate := DefaultLaborPercentage
	if pct != nil {
		rate = *pct
	}
	return percentOf(SectionSubtotal(items, section), rate)
}

// SectionLaborPerItem sums each item's own LaborCharge within the section.
func SectionLaborPerItem(items []LineItem, section string) decimal.Decimal {
	name := NormalizeSection(section)
	total := decimal.Zero
	for _, item := range items {
		if NormalizeSection(item.Section) == name {
			total = total.Add(LaborCharge(item))
		}
	}
	return total
}

// DocumentTotals holds the money amounts derived from a cost document.
type DocumentTotals struct {
	MaterialSubtotal  decimal.Decimal
	LaborSubtotal     decimal.Decimal
	EffectiveSubtotal decimal.Decimal // base the tax is computed on
	TaxAmount         decimal.Decimal
	DiscountAmount    decimal.Decimal
	GrandTotal        decimal.Decimal
	TaxMode           TaxMode
}

// Rounded returns a copy with every amount rounded for persistence or display.
func (t DocumentTotals) Rounded() DocumentTotals {
	return DocumentTotals{
		MaterialSubtotal:  Round2(t.MaterialSubtotal),
		LaborSubtotal:     Round2(t.LaborSubtotal),
		EffectiveSubtotal: Round2(t.EffectiveSubtotal),
		TaxAmount:         Round2(t.TaxAmount),
		DiscountAmount:    Round2(t.DiscountAmount),
		GrandTotal:        Round2(t.GrandTotal),
		TaxMode:           t.TaxMode,
	}
}

func itemSubtotals(items []LineItem) (material, labor decimal.Decimal) {
	material, labor = decimal.Zero, decimal.Zero
	for _, item := range items {
		material = material.Add(LineAmount(item))
		labor = labor.Add(LaborCharge(item))
	}
	return material, labor
}

// ComputeTaxExclusive adds tax on top of the subtotal:
//
//	effective = material (+ labor when IncludeLaborInSubtotal)
//	tax       = effective * taxRate / 100
//	total     = effective + tax - discount
//
// The total is not clamped; a discount larger than effective+tax yields a
// negative total and ValidateDocument is where such documents get rejected.
func ComputeTaxExclusive(doc CostDocument) DocumentTotals {
	material, labor := itemSubtotals(doc.Items)

	effective := material
	if doc.IncludeLaborInSubtotal {
		effective = effective.Add(labor)
	}
	tax := percentOf(effective, doc.TaxRate)

	return DocumentTotals{
		MaterialSubtotal:  material,
		LaborSubtotal:     labor,
		EffectiveSubtotal: effective,
		TaxAmount:         tax,
		DiscountAmount:    doc.DiscountAmount,
		GrandTotal:        effective.Add(tax).Sub(doc.DiscountAmount),
		TaxMode:           TaxExclusive,
	}
}

// ComputeTaxInclusive reverse-derives tax from a total that already contains
// it. The discount is added back first so that a total produced by
// ComputeTaxExclusive at the same rate yields the same tax amount:
//
//	gross    = total + discount
//	tax      = gross * taxRate / (100 + taxRate)
//	subtotal = gross - tax
//
// Material and labor subtotals are unknown in this mode and left at zero.
func ComputeTaxInclusive(inclusiveTotal, taxRate, discount decimal.Decimal) DocumentTotals {
	gross := inclusiveTotal.Add(discount)
	tax := decimal.Zero
	if divisor := hundred.Add(taxRate); !divisor.IsZero() {
		tax = gross.Mul(taxRate).Div(divisor)
	}

	return DocumentTotals{
		MaterialSubtotal:  decimal.Zero,
		LaborSubtotal:     decimal.Zero,
		EffectiveSubtotal: gross.Sub(tax),
		TaxAmount:         tax,
		DiscountAmount:    discount,
		GrandTotal:        inclusiveTotal,
		TaxMode:           TaxInclusive,
	}
}

// ComputeTotals picks the computation matching the document's tax mode. For
// tax-inclusive documents the item prices already contain tax, so the
// inclusive total is the item subtotal less the discount.
func ComputeTotals(doc CostDocument) DocumentTotals {
	if doc.TaxMode != TaxInclusive {
		return ComputeTaxExclusive(doc)
	}

	material, labor := itemSubtotals(doc.Items)
	gross := material
	if doc.IncludeLaborInSubtotal {
		gross = gross.Add(labor)
	}

	totals := ComputeTaxInclusive(gross.Sub(doc.DiscountAmount), doc.TaxRate, doc.DiscountAmount)
	totals.MaterialSubtotal = material
	totals.LaborSubtotal = labor
	return totals
}
