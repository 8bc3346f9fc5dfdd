package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

// HandleDocumentConvert returns a handler that creates a new document of the
// kind named by the "to" form value from an existing one, e.g. a quote from a
// template or an invoice from a quote. The source is left unchanged.
func HandleDocumentConvert(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		srcKind, err := kindFromRequest(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Unknown document type")
		}
		srcID := e.Request.PathValue("id")
		if srcID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing document ID")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		target, err := services.ParseDocumentKind(e.Request.FormValue("to"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Choose invoice, quote or template")
		}

		created, err := services.InstantiateDocument(app, srcKind, srcID, target)
		if err != nil {
			var verr *services.ValidationError
			switch {
			case errors.Is(err, services.ErrDocumentNotFound):
				return ErrorToast(e, http.StatusNotFound, srcKind.Label()+" not found")
			case errors.As(err, &verr):
				documentSaveRejected.WithLabelValues(string(target), "validation").Inc()
				return ErrorToast(e, http.StatusUnprocessableEntity, "Cannot convert: "+verr.Problems[0])
			default:
				documentSaveRejected.WithLabelValues(string(target), "store").Inc()
				app.Logger().Error("Failed to convert document", "from", srcKind, "id", srcID, "to", target, "error", err)
				return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
			}
		}
		documentsSaved.WithLabelValues(string(target)).Inc()
		app.Logger().Info("Document converted", "from", srcKind, "source", srcID, "to", target, "id", created.ID, "number", created.Number)

		SetToast(e, "success", target.Label()+" "+created.Number+" created")
		viewURL := "/" + target.Collection() + "/" + created.ID
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusCreated, map[string]any{
				"document": payloadFromDocument(created),
				"url":      viewURL,
			})
		}
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", viewURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, viewURL)
	}
}
