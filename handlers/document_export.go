package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// exportFilename builds a download name like "INV-2026-001.pdf".
func exportFilename(data services.ExportData, ext string) string {
	name := data.Number
	if name == "" {
		name = data.Kind.Label()
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_") + "." + ext
}

// loadExport reads the export data for the request's document. When ok is
// false an error response has already been written and err is its result.
func loadExport(app *pocketbase.PocketBase, e *core.RequestEvent) (data services.ExportData, ok bool, err error) {
	kind, err := kindFromRequest(e)
	if err != nil {
		return data, false, ErrorToast(e, http.StatusNotFound, "Unknown document type")
	}
	id := e.Request.PathValue("id")
	if id == "" {
		return data, false, ErrorToast(e, http.StatusBadRequest, "Missing document ID")
	}

	data, err = services.LoadExportData(app, kind, id, GetSettings(e.Request))
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			return data, false, ErrorToast(e, http.StatusNotFound, kind.Label()+" not found")
		}
		app.Logger().Error("Failed to load export data", "kind", kind, "id", id, "error", err)
		return data, false, ErrorToast(e, http.StatusInternalServerError, "Failed to load document")
	}
	return data, true, nil
}

// HandleDocumentExportPDF returns a handler that downloads a document as PDF.
func HandleDocumentExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok, err := loadExport(app, e)
		if !ok {
			return err
		}

		pdfBytes, err := services.GenerateDocumentPDF(data)
		if err != nil {
			app.Logger().Error("Failed to generate PDF", "number", data.Number, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}

// HandleDocumentExportExcel returns a handler that downloads a document as an
// Excel workbook.
func HandleDocumentExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok, err := loadExport(app, e)
		if !ok {
			return err
		}

		xlsxBytes, err := services.GenerateDocumentExcel(data)
		if err != nil {
			app.Logger().Error("Failed to generate Excel", "number", data.Number, "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
