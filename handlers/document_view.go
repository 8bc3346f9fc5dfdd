package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
	"backoffice/templates"
)

// kindFromRequest reads the document kind from the {kind} path value or,
// when routes are registered per kind, from the first path segment.
func kindFromRequest(e *core.RequestEvent) (services.DocumentKind, error) {
	if k := e.Request.PathValue("kind"); k != "" {
		return services.ParseDocumentKind(k)
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(e.Request.URL.Path, "/"), "/")
	return services.ParseDocumentKind(first)
}

// buildDocumentViewData formats a stored document for display. A draft shows
// the totals recomputed from its items; an issued document shows its stored
// snapshot. Either way, fields where the two disagree are reported in Drift.
func buildDocumentViewData(stored services.StoredDocument, client services.ExportParty, settings services.Settings) templates.DocumentViewData {
	doc := stored.Document
	display, computed := stored.DisplayTotals()
	export := services.BuildExportData(doc, display, client, settings)
	symbol := settings.CurrencySymbol

	data := templates.DocumentViewData{
		Kind:       doc.Kind.Collection(),
		KindLabel:  doc.Kind.Label(),
		ID:         doc.ID,
		Number:     doc.Number,
		Title:      doc.Title,
		Status:     doc.Status,
		IssueDate:  doc.IssueDate,
		DueDate:    doc.DueDate,
		ClientName: client.Name,
		Notes:      doc.Notes,
		Totals:     totalsView(export),
		Drift:      stored.Snapshot.Diff(services.SnapshotOf(computed)),
		Issued:     stored.Issued(),
	}
	for _, sec := range export.Sections {
		sv := templates.SectionView{
			Name:     sec.Name,
			Subtotal: services.FormatMoney(sec.Subtotal, symbol),
			Labor:    services.FormatMoney(sec.Labor, symbol),
		}
		for _, r := range sec.Rows {
			sv.Rows = append(sv.Rows, templates.ItemRowView{
				Index:       r.Index,
				Description: r.Description,
				Quantity:    services.FormatQuantity(r.Quantity),
				UnitCost:    services.FormatMoney(r.UnitCost, ""),
				Amount:      services.FormatMoney(r.Amount, ""),
				LaborPct:    services.FormatPercent(r.LaborPct),
				Labor:       services.FormatMoney(r.Labor, ""),
			})
		}
		data.Sections = append(data.Sections, sv)
	}
	return data
}

func totalsView(data services.ExportData) templates.TotalsView {
	symbol := data.CurrencySymbol
	taxLabel := "VAT " + services.FormatPercent(data.TaxRate)
	if data.TaxMode == services.TaxInclusive {
		taxLabel += " (included)"
	}
	return templates.TotalsView{
		Materials:     services.FormatMoney(data.MaterialSubtotal, symbol),
		Labor:         services.FormatMoney(data.LaborSubtotal, symbol),
		Subtotal:      services.FormatMoney(data.Subtotal, symbol),
		TaxLabel:      taxLabel,
		Tax:           services.FormatMoney(data.TaxAmount, symbol),
		Discount:      services.FormatMoney(data.DiscountAmount, symbol),
		HasDiscount:   !data.DiscountAmount.IsZero(),
		GrandTotal:    services.FormatMoney(data.GrandTotal, symbol),
		AmountInWords: data.AmountInWords,
	}
}

// HandleDocumentView returns a handler that renders one invoice, quote or
// template, or returns it as JSON when the caller asks for JSON.
func HandleDocumentView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing document ID")
		}

		stored, err := services.LoadDocument(app, kind, id)
		if err != nil {
			if errors.Is(err, services.ErrDocumentNotFound) {
				return ErrorToast(e, http.StatusNotFound, kind.Label()+" not found")
			}
			app.Logger().Error("Failed to load document", "kind", kind, "id", id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		settings := GetSettings(e.Request)

		if wantsJSON(e.Request) {
			display, computed := stored.DisplayTotals()
			return e.JSON(http.StatusOK, map[string]any{
				"document":        payloadFromDocument(stored.Document),
				"totals":          totalsToPayload(display, settings),
				"computed_totals": totalsToPayload(computed, settings),
				"issued":          stored.Issued(),
				"sections":        sectionsToPayload(services.SummarizeSections(stored.Document.Items, services.LaborModePerItem, nil)),
				"drift":           stored.Snapshot.Diff(services.SnapshotOf(computed)),
			})
		}

		client := services.FindClientParty(app, stored.Document.ClientID)
		data := buildDocumentViewData(stored, client, settings)

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentViewContent(data)
		} else {
			component = templates.DocumentViewPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
