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

// HandleDocumentNew returns a handler that sends a fresh draft with the
// configured defaults and one empty row. Nothing is persisted.
func HandleDocumentNew(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}
		settings := GetSettings(e.Request)
		doc := services.NewCostDocument(kind, settings)
		return e.JSON(http.StatusOK, map[string]any{
			"document": payloadFromDocument(doc),
			"totals":   totalsToPayload(services.ComputeTotals(doc), settings),
		})
	}
}

// HandleDocumentCreate returns a handler that saves a new document from the
// editor's JSON body. Fields missing from the body take the configured defaults.
func HandleDocumentCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}

		payload := payloadFromDocument(services.NewCostDocument(kind, GetSettings(e.Request)))
		payload.Items = nil
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid document data")
		}

		doc := payload.toDocument(kind)
		doc.ID = ""
		return saveDocument(app, e, doc, http.StatusCreated)
	}
}

// HandleDocumentUpdate returns a handler that replaces a stored document with
// the editor's JSON body. The stored number is kept when the body has none.
func HandleDocumentUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
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
			documentSaveRejected.WithLabelValues(string(kind), "not_found").Inc()
			return ErrorToast(e, http.StatusNotFound, kind.Label()+" not found")
		}

		var payload documentPayload
		if err := json.NewDecoder(e.Request.Body).Decode(&payload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid document data")
		}

		doc := payload.toDocument(kind)
		doc.ID = id
		if doc.Number == "" {
			doc.Number = stored.Document.Number
		}
		return saveDocument(app, e, doc, http.StatusOK)
	}
}

// saveDocument persists doc and writes the response shared by create and
// update: the saved document as JSON, or an HX-Redirect to its page.
func saveDocument(app *pocketbase.PocketBase, e *core.RequestEvent, doc services.CostDocument, status int) error {
	kind := doc.Kind
	settings := GetSettings(e.Request)

	saved, err := services.SaveDocument(app, doc)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			documentSaveRejected.WithLabelValues(string(kind), "validation").Inc()
			app.Logger().Info("Document rejected", "kind", kind, "id", doc.ID, "problems", len(verr.Problems))
			if wantsJSON(e.Request) {
				return e.JSON(http.StatusUnprocessableEntity, map[string]any{"errors": verr.Problems})
			}
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.Header().Set("HX-Retarget", "#validation-errors")
			e.Response.Header().Set("HX-Reswap", "outerHTML")
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			return templates.ValidationErrors(verr.Problems).Render(e.Request.Context(), e.Response)
		case errors.Is(err, services.ErrDocumentNotFound):
			documentSaveRejected.WithLabelValues(string(kind), "not_found").Inc()
			return ErrorToast(e, http.StatusNotFound, kind.Label()+" not found")
		default:
			documentSaveRejected.WithLabelValues(string(kind), "store").Inc()
			app.Logger().Error("Failed to save document", "kind", kind, "id", doc.ID, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
	}

	documentsSaved.WithLabelValues(string(kind)).Inc()
	app.Logger().Info("Document saved", "kind", kind, "id", saved.ID, "number", saved.Number)

	SetToast(e, "success", kind.Label()+" "+saved.Number+" saved")
	viewURL := "/" + kind.Collection() + "/" + saved.ID
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", viewURL)
	}
	return e.JSON(status, map[string]any{
		"document": payloadFromDocument(saved),
		"totals":   totalsToPayload(services.ComputeTotals(saved), settings),
		"url":      viewURL,
	})
}
