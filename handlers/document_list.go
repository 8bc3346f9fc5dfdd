package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
	"backoffice/templates"
)

// HandleDocumentList returns a handler that lists invoices, quotes or templates.
func HandleDocumentList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}

		summaries, err := services.ListDocuments(app, kind)
		if err != nil {
			app.Logger().Error("Failed to list documents", "kind", kind, "error", err)
			summaries = nil
		}

		if wantsJSON(e.Request) {
			if summaries == nil {
				summaries = []services.DocumentSummary{}
			}
			return e.JSON(http.StatusOK, summaries)
		}

		settings := GetSettings(e.Request)
		data := templates.DocumentListData{
			Kind:      kind.Collection(),
			KindLabel: kind.Label() + "s",
		}
		for _, s := range summaries {
			data.Rows = append(data.Rows, templates.DocumentRowView{
				ID:        s.ID,
				Number:    s.Number,
				Title:     s.Title,
				Status:    s.Status,
				IssueDate: s.IssueDate,
				Total:     services.FormatMoney(s.TotalAmount, settings.CurrencySymbol),
			})
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = templates.DocumentListContent(data)
		} else {
			component = templates.DocumentListPage(data, GetHeaderData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
