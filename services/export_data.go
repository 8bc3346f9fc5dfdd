package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// ExportRow is a single line item in a document export.
type ExportRow struct {
	Index       string // "1", "2", ... numbered across the whole document
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Amount      decimal.Decimal
	LaborPct    decimal.Decimal
	Labor       decimal.Decimal
}

// ExportSection groups rows under a section heading with its subtotals.
type ExportSection struct {
	Name     string
	Rows     []ExportRow
	Subtotal decimal.Decimal
	Labor    decimal.Decimal
}

// ExportParty is the company or client block printed in the header.
type ExportParty struct {
	Name    string
	Address string
	Phone   string
	Email   string
	TaxPIN  string
}

// ExportData holds all data needed to render a document to PDF or Excel.
type ExportData struct {
	Title     string // "INVOICE", "QUOTE", "TEMPLATE"
	Kind      DocumentKind
	Number    string
	Subject   string
	IssueDate string
	DueDate   string
	Notes     string

	Company ExportParty
	Client  ExportParty

	Sections []ExportSection

	MaterialSubtotal       decimal.Decimal
	LaborSubtotal          decimal.Decimal
	IncludeLaborInSubtotal bool
	Subtotal               decimal.Decimal
	TaxRate                decimal.Decimal
	TaxAmount              decimal.Decimal
	DiscountAmount         decimal.Decimal
	GrandTotal             decimal.Decimal
	TaxMode                TaxMode
	AmountInWords          string

	CurrencySymbol string
}

// BuildExportData assembles the export view of doc. Section labor uses the
// per-item charges so sections add up to the document labor subtotal.
func BuildExportData(doc CostDocument, totals DocumentTotals, client ExportParty, settings Settings) ExportData {
	t := totals.Rounded()
	data := ExportData{
		Title:     strings.ToUpper(doc.Kind.Label()),
		Kind:      doc.Kind,
		Number:    doc.Number,
		Subject:   doc.Title,
		IssueDate: doc.IssueDate,
		DueDate:   doc.DueDate,
		Notes:     doc.Notes,
		Company: ExportParty{
			Name:    settings.CompanyName,
			Address: settings.Address,
			Phone:   settings.Phone,
			Email:   settings.Email,
			TaxPIN:  settings.TaxPIN,
		},
		Client:                 client,
		MaterialSubtotal:       t.MaterialSubtotal,
		LaborSubtotal:          t.LaborSubtotal,
		IncludeLaborInSubtotal: doc.IncludeLaborInSubtotal,
		Subtotal:               t.EffectiveSubtotal,
		TaxRate:                doc.TaxRate,
		TaxAmount:              t.TaxAmount,
		DiscountAmount:         t.DiscountAmount,
		GrandTotal:             t.GrandTotal,
		TaxMode:                t.TaxMode,
		AmountInWords:          AmountToWords(t.GrandTotal, settings.CurrencyWord),
		CurrencySymbol:         settings.CurrencySymbol,
	}

	n := 0
	summaries := SummarizeSections(doc.Items, LaborModePerItem, nil)
	for i, g := range GroupBySection(doc.Items) {
		sec := ExportSection{
			Name:     g.Name,
			Subtotal: Round2(summaries[i].Subtotal),
			Labor:    Round2(summaries[i].Labor),
		}
		for _, item := range g.Items {
			n++
			sec.Rows = append(sec.Rows, ExportRow{
				Index:       fmt.Sprintf("%d", n),
				Description: item.Description,
				Quantity:    item.Quantity,
				UnitCost:    Round2(item.UnitCost),
				Amount:      Round2(LineAmount(item)),
				LaborPct:    item.LaborPercentage,
				Labor:       Round2(LaborCharge(item)),
			})
		}
		data.Sections = append(data.Sections, sec)
	}
	return data
}

// LoadExportData reads a document and its client and builds its export data.
// Drafts export the engine's totals; issued documents export their snapshot.
func LoadExportData(app core.App, kind DocumentKind, id string, settings Settings) (ExportData, error) {
	stored, err := LoadDocument(app, kind, id)
	if err != nil {
		return ExportData{}, err
	}
	client := FindClientParty(app, stored.Document.ClientID)
	display, _ := stored.DisplayTotals()
	return BuildExportData(stored.Document, display, client, settings), nil
}

// FindClientParty returns the client block for clientID. A missing client
// is logged and yields an empty block so the document still renders.
func FindClientParty(app core.App, clientID string) ExportParty {
	if clientID == "" {
		return ExportParty{}
	}
	rec, err := app.FindRecordById("clients", clientID)
	if err != nil {
		app.Logger().Warn("Client not found", "client", clientID, "error", err)
		return ExportParty{}
	}
	return ExportParty{
		Name:    joinNonEmpty([]string{rec.GetString("name"), rec.GetString("company")}, ", "),
		Address: rec.GetString("address"),
		Phone:   rec.GetString("phone"),
		Email:   rec.GetString("email"),
		TaxPIN:  rec.GetString("tax_pin"),
	}
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	result := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if result != "" {
			result += sep
		}
		result += p
	}
	return result
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
