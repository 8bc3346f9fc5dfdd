package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DocumentKind selects one of the three cost document tables.
type DocumentKind string

const (
	KindInvoice  DocumentKind = "invoice"
	KindQuote    DocumentKind = "quote"
	KindTemplate DocumentKind = "template"
)

// AllKinds lists the document kinds in display order.
var AllKinds = []DocumentKind{KindInvoice, KindQuote, KindTemplate}

var ErrUnknownKind = errors.New("unknown document kind")

// ParseDocumentKind accepts singular or plural kind names ("quote", "quotes").
func ParseDocumentKind(s string) (DocumentKind, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "invoice", "invoices":
		return KindInvoice, nil
	case "quote", "quotes":
		return KindQuote, nil
	case "template", "templates":
		return KindTemplate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Collection is the record store collection holding documents of this kind.
func (k DocumentKind) Collection() string { return string(k) + "s" }

// ItemsCollection is the collection holding this kind's line items.
func (k DocumentKind) ItemsCollection() string { return string(k) + "_items" }

// NumberPrefix is the prefix of generated document numbers.
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case KindInvoice:
		return "INV"
	case KindQuote:
		return "QT"
	default:
		return "TPL"
	}
}

// Label is the human-readable name.
func (k DocumentKind) Label() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindQuote:
		return "Quote"
	default:
		return "Template"
	}
}

// TaxMode records how a document's stored total relates to its tax.
type TaxMode string

const (
	TaxExclusive TaxMode = "exclusive"
	TaxInclusive TaxMode = "inclusive"
)

// ParseTaxMode maps anything other than "inclusive" to TaxExclusive, which is
// how every document was computed before the mode was stored.
func ParseTaxMode(s string) TaxMode {
	if strings.EqualFold(strings.TrimSpace(s), string(TaxInclusive)) {
		return TaxInclusive
	}
	return TaxExclusive
}

// CostDocument is an invoice, quote or template.
type CostDocument struct {
	ID        string
	Kind      DocumentKind
	Number    string
	Title     string
	ClientID  string
	Status    string
	IssueDate string
	DueDate   string
	Notes     string

	Items                  []LineItem
	TaxRate                decimal.Decimal
	DiscountAmount         decimal.Decimal
	IncludeLaborInSubtotal bool
	TaxMode                TaxMode
}

// NewCostDocument returns a draft with the configured defaults and one empty row.
func NewCostDocument(kind DocumentKind, settings Settings) CostDocument {
	return CostDocument{
		Kind:                   kind,
		Status:                 "draft",
		Items:                  []LineItem{NewLineItem(settings.DefaultLaborPercentage)},
		TaxRate:                settings.DefaultTaxRate,
		DiscountAmount:         decimal.Zero,
		IncludeLaborInSubtotal: settings.IncludeLaborInSubtotal,
		TaxMode:                settings.TaxMode,
	}
}

// Snapshot is the set of totals persisted alongside a document. Stored totals
// are never re-derived on read, so a snapshot can drift from what the engine
// would compute today; see AuditStoredTotals.
type Snapshot struct {
	Subtotal       decimal.Decimal
	LaborSubtotal  decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	TaxMode        TaxMode
}

// SnapshotOf rounds totals into the persisted form.
func SnapshotOf(t DocumentTotals) Snapshot {
	r := t.Rounded()
	return Snapshot{
		Subtotal:       r.EffectiveSubtotal,
		LaborSubtotal:  r.LaborSubtotal,
		TaxAmount:      r.TaxAmount,
		DiscountAmount: r.DiscountAmount,
		GrandTotal:     r.GrandTotal,
		TaxMode:        r.TaxMode,
	}
}

// Diff names the fields whose values differ between two snapshots.
func (s Snapshot) Diff(other Snapshot) []string {
	var fields []string
	if !s.Subtotal.Equal(other.Subtotal) {
		fields = append(fields, "subtotal")
	}
	if !s.LaborSubtotal.Equal(other.LaborSubtotal) {
		fields = append(fields, "labor_subtotal")
	}
	if !s.TaxAmount.Equal(other.TaxAmount) {
		fields = append(fields, "tax_amount")
	}
	if !s.DiscountAmount.Equal(other.DiscountAmount) {
		fields = append(fields, "discount_amount")
	}
	if !s.GrandTotal.Equal(other.GrandTotal) {
		fields = append(fields, "total_amount")
	}
	if s.TaxMode != other.TaxMode {
		fields = append(fields, "tax_mode")
	}
	return fields
}

// CopyDocument returns a new, unsaved document of kind built from src. Items
// get fresh row keys and lose their record ids.
func CopyDocument(src CostDocument, kind DocumentKind) CostDocument {
	dst := src
	dst.ID = ""
	dst.Kind = kind
	dst.Number = ""
	dst.Status = "draft"
	dst.Items = make([]LineItem, len(src.Items))
	for i, item := range src.Items {
		fresh := NewLineItem(item.LaborPercentage)
		fresh.SortOrder = item.SortOrder
		fresh.Description = item.Description
		fresh.Section = item.Section
		fresh.Quantity = item.Quantity
		fresh.UnitCost = item.UnitCost
		fresh.LaborCharge = item.LaborCharge
		dst.Items[i] = fresh
	}
	return dst
}
