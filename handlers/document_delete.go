package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// HandleDocumentDelete returns a handler that deletes a document and its items
// in one transaction.
func HandleDocumentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}
		id := e.Request.PathValue("id")
		if id == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing document ID")
		}

		if err := services.DeleteDocument(app, kind, id); err != nil {
			if errors.Is(err, services.ErrDocumentNotFound) {
				return ErrorToast(e, http.StatusNotFound, kind.Label()+" not found")
			}
			app.Logger().Error("Failed to delete document", "kind", kind, "id", id, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		documentsDeleted.WithLabelValues(string(kind)).Inc()

		SetToast(e, "success", kind.Label()+" deleted successfully")
		listURL := "/" + kind.Collection()
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", listURL)
			return e.String(http.StatusOK, "")
		}
		if wantsJSON(e.Request) {
			return e.NoContent(http.StatusNoContent)
		}
		return e.Redirect(http.StatusFound, listURL)
	}
}
