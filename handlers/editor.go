package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
	"backoffice/templates"
)

// Editor commands accepted by HandleEditorApply.
const (
	opAddItem       = "add_item"
	opRemoveItem    = "remove_item"
	opEditItem      = "edit_item"
	opRenameSection = "rename_section"
)

type editorCommand struct {
	Op    string `json:"op"`
	Key   string `json:"key"`
	Field string `json:"field"`
	Value scalarText `json:"value"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type editorRequest struct {
	Kind      string          `json:"kind"`
	Document  documentPayload `json:"document"`
	Command   editorCommand   `json:"command"`
	LaborMode string          `json:"labor_mode"`
}

type editorResponse struct {
	Document documentPayload  `json:"document"`
	Totals   totalsPayload    `json:"totals"`
	Sections []sectionPayload `json:"sections"`
	Problems []string         `json:"problems"`
}

var errUnknownCommand = errors.New("unknown editor command")

// applyEditorCommand runs one editor command against the in-memory document.
func applyEditorCommand(doc services.CostDocument, cmd editorCommand, settings services.Settings) (services.CostDocument, error) {
	switch cmd.Op {
	case opAddItem:
		doc.Items = services.AddItem(doc.Items, settings.DefaultLaborPercentage)
	case opRemoveItem:
		items, err := services.RemoveItem(doc.Items, cmd.Key)
		if err != nil {
			return doc, err
		}
		doc.Items = items
	case opEditItem:
		field, err := services.ParseItemField(cmd.Field)
		if err != nil {
			return doc, err
		}
		items := append([]services.LineItem(nil), doc.Items...)
		found := false
		for i := range items {
			if items[i].Key != cmd.Key {
				continue
			}
			items[i], err = services.ApplyItemEdit(items[i], services.ItemEdit{Field: field, Value: string(cmd.Value)})
			if err != nil {
				return doc, err
			}
			found = true
			break
		}
		if !found {
			return doc, services.ErrItemNotFound
		}
		doc.Items = items
	case opRenameSection:
		doc.Items = services.RenameSection(doc.Items, cmd.From, cmd.To)
	default:
		return doc, errUnknownCommand
	}
	return doc, nil
}

func editorResult(doc services.CostDocument, mode services.LaborMode, settings services.Settings) editorResponse {
	problems := services.ValidateDocument(doc)
	if problems == nil {
		problems = []string{}
	}
	return editorResponse{
		Document: payloadFromDocument(doc),
		Totals:   totalsToPayload(services.ComputeTotals(doc), settings),
		Sections: sectionsToPayload(services.SummarizeSections(doc.Items, mode, nil)),
		Problems: problems,
	}
}

func parseLaborMode(s string) services.LaborMode {
	if services.LaborMode(s) == services.LaborModeFlat {
		return services.LaborModeFlat
	}
	return services.LaborModePerItem
}

// HandleEditorApply returns a handler for the live editor. The client sends
// its in-memory document and one command and receives the updated document
// with recomputed totals and section summaries. Nothing is persisted until
// the document is saved.
func HandleEditorApply(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req editorRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid editor request"})
		}
		kind, err := services.ParseDocumentKind(req.Kind)
		if err != nil {
			kind = services.KindQuote
		}

		settings := GetSettings(e.Request)
		doc, err := applyEditorCommand(req.Document.toDocument(kind), req.Command, settings)
		if err != nil {
			status := http.StatusUnprocessableEntity
			msg := err.Error()
			switch {
			case errors.Is(err, services.ErrLastItem):
				msg = "A document needs at least one line item"
			case errors.Is(err, services.ErrItemNotFound):
				status = http.StatusNotFound
				msg = "Line item not found"
			case errors.Is(err, errUnknownCommand), errors.Is(err, services.ErrUnknownField):
				status = http.StatusBadRequest
			}
			return e.JSON(status, map[string]string{"error": msg})
		}

		return e.JSON(http.StatusOK, editorResult(doc, parseLaborMode(req.LaborMode), settings))
	}
}

// HandleTotalsPreview returns a handler that computes totals for a document
// without saving it. HTMX requests get the rendered totals panel.
func HandleTotalsPreview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var payload documentPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid document data"})
		}

		settings := GetSettings(e.Request)
		doc := payload.toDocument(services.KindQuote)

		if e.Request.Header.Get("HX-Request") == "true" {
			export := services.BuildExportData(doc, services.ComputeTotals(doc), services.ExportParty{}, settings)
			return templates.TotalsPanel(totalsView(export)).Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusOK, editorResult(doc, parseLaborMode(e.Request.URL.Query().Get("labor_mode")), settings))
	}
}
