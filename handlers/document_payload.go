package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice/services"
)

// amount is a numeric field sent by the editor. It accepts a JSON number or
// string; blank, null or non-numeric input decodes as zero.
type amount struct {
	decimal.Decimal
}

func (a *amount) UnmarshalJSON(b []byte) error {
	a.Decimal = services.ParseAmount(jsonScalar(b))
	return nil
}

// optionalAmount is an override that stays unset for blank, null or
// non-numeric input.
type optionalAmount struct {
	decimal.NullDecimal
}

func (a *optionalAmount) UnmarshalJSON(b []byte) error {
	d, ok := services.ParseOptionalAmount(jsonScalar(b))
	a.NullDecimal = decimal.NullDecimal{Decimal: d, Valid: ok}
	return nil
}

// scalarText is a text field that also accepts a bare JSON number or bool.
type scalarText string

func (t *scalarText) UnmarshalJSON(b []byte) error {
	*t = scalarText(jsonScalar(b))
	return nil
}

// jsonScalar returns the contents of a JSON string, or the raw token for
// anything else.
func jsonScalar(b []byte) string {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	return string(b)
}

// itemPayload is the JSON form of a line item exchanged with the editor.
type itemPayload struct {
	ID              string              `json:"id,omitempty"`
	Key             string              `json:"key"`
	Description     string              `json:"description"`
	Section         string              `json:"section"`
	Quantity        amount         `json:"quantity"`
	UnitCost        amount         `json:"unit_cost"`
	LaborPercentage amount         `json:"labor_percentage"`
	LaborCharge     optionalAmount `json:"labor_charge"`
}

// documentPayload is the JSON form of a cost document.
type documentPayload struct {
	ID                     string        `json:"id,omitempty"`
	Number                 string        `json:"number"`
	Title                  string        `json:"title"`
	ClientID               string        `json:"client_id"`
	Status                 string        `json:"status"`
	IssueDate              string        `json:"issue_date"`
	DueDate                string        `json:"due_date"`
	Notes                  string        `json:"notes"`
	Items                  []itemPayload `json:"items"`
	TaxRate                amount        `json:"tax_rate"`
	DiscountAmount         amount        `json:"discount_amount"`
	IncludeLaborInSubtotal bool          `json:"include_labor_in_subtotal"`
	TaxMode                string        `json:"tax_mode"`
}

// totalsPayload is the rounded engine output sent back to the editor.
type totalsPayload struct {
	MaterialSubtotal decimal.Decimal `json:"material_subtotal"`
	LaborSubtotal    decimal.Decimal `json:"labor_subtotal"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
	TaxMode          string          `json:"tax_mode"`
	Formatted        string          `json:"formatted_total"`
	AmountInWords    string          `json:"amount_in_words"`
}

type sectionPayload struct {
	Name     string          `json:"name"`
	Items    int             `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Labor    decimal.Decimal `json:"labor"`
}

func payloadFromDocument(doc services.CostDocument) documentPayload {
	p := documentPayload{
		ID:                     doc.ID,
		Number:                 doc.Number,
		Title:                  doc.Title,
		ClientID:               doc.ClientID,
		Status:                 doc.Status,
		IssueDate:              doc.IssueDate,
		DueDate:                doc.DueDate,
		Notes:                  doc.Notes,
		Items:                  make([]itemPayload, 0, len(doc.Items)),
		TaxRate:                amount{doc.TaxRate},
		DiscountAmount:         amount{doc.DiscountAmount},
		IncludeLaborInSubtotal: doc.IncludeLaborInSubtotal,
		TaxMode:                string(doc.TaxMode),
	}
	for _, it := range doc.Items {
		p.Items = append(p.Items, itemToPayload(it))
	}
	return p
}

func itemToPayload(it services.LineItem) itemPayload {
	return itemPayload{
		ID:              it.ID,
		Key:             it.Key,
		Description:     it.Description,
		Section:         it.Section,
		Quantity:        amount{it.Quantity},
		UnitCost:        amount{it.UnitCost},
		LaborPercentage: amount{it.LaborPercentage},
		LaborCharge:     optionalAmount{it.LaborCharge},
	}
}

func (p documentPayload) toDocument(kind services.DocumentKind) services.CostDocument {
	doc := services.CostDocument{
		ID:                     p.ID,
		Kind:                   kind,
		Number:                 strings.TrimSpace(p.Number),
		Title:                  strings.TrimSpace(p.Title),
		ClientID:               p.ClientID,
		Status:                 p.Status,
		IssueDate:              p.IssueDate,
		DueDate:                p.DueDate,
		Notes:                  p.Notes,
		TaxRate:                p.TaxRate.Decimal,
		DiscountAmount:         p.DiscountAmount.Decimal,
		IncludeLaborInSubtotal: p.IncludeLaborInSubtotal,
		TaxMode:                services.ParseTaxMode(p.TaxMode),
	}
	for _, it := range p.Items {
		item := services.LineItem{
			ID:              it.ID,
			Key:             it.Key,
			Description:     it.Description,
			Section:         services.NormalizeSection(it.Section),
			Quantity:        it.Quantity.Decimal,
			UnitCost:        it.UnitCost.Decimal,
			LaborPercentage: it.LaborPercentage.Decimal,
			LaborCharge:     it.LaborCharge.NullDecimal,
		}
		if item.Key == "" {
			item.Key = it.ID
		}
		doc.Items = append(doc.Items, item)
	}
	doc.Items = services.Renumber(doc.Items)
	return doc
}

func totalsToPayload(totals services.DocumentTotals, settings services.Settings) totalsPayload {
	r := totals.Rounded()
	return totalsPayload{
		MaterialSubtotal: r.MaterialSubtotal,
		LaborSubtotal:    r.LaborSubtotal,
		Subtotal:         r.EffectiveSubtotal,
		TaxAmount:        r.TaxAmount,
		DiscountAmount:   r.DiscountAmount,
		GrandTotal:       r.GrandTotal,
		TaxMode:          string(r.TaxMode),
		Formatted:        services.FormatMoney(r.GrandTotal, settings.CurrencySymbol),
		AmountInWords:    services.AmountToWords(r.GrandTotal, settings.CurrencyWord),
	}
}

func sectionsToPayload(summaries []services.SectionSummary) []sectionPayload {
	out := make([]sectionPayload, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, sectionPayload{
			Name:     s.Name,
			Items:    s.Items,
			Subtotal: services.Round2(s.Subtotal),
			Labor:    services.Round2(s.Labor),
		})
	}
	return out
}

// wantsJSON reports whether the caller asked for JSON rather than HTML.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
