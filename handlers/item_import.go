package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"backoffice/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type importResponse struct {
	*services.ImportResult
	Items []itemPayload `json:"items"`
}

// HandleItemsImport returns a handler that parses an uploaded .csv or .xlsx
// items file into rows for the editor. Nothing is persisted; the editor adds
// the rows to its in-memory document.
func HandleItemsImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseItemsFile(file, header.Filename, GetSettings(e.Request))
		if err != nil {
			app.Logger().Warn("Items file rejected", "file", header.Filename, "error", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		resp := importResponse{ImportResult: result, Items: make([]itemPayload, 0, len(result.Items))}
		for _, it := range result.Items {
			resp.Items = append(resp.Items, itemToPayload(it))
		}
		if resp.Errors == nil {
			resp.Errors = []services.ImportError{}
		}

		if result.ErrorRows > 0 {
			SetToast(e, "warning", fmt.Sprintf("%d of %d rows have errors", result.ErrorRows, result.TotalRows))
		} else {
			SetToast(e, "success", fmt.Sprintf("%d rows ready to add", result.ValidRows))
		}
		return e.JSON(http.StatusOK, resp)
	}
}

// HandleItemsTemplate returns a handler that downloads a blank items file.
func HandleItemsTemplate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateItemsTemplate()
		if err != nil {
			app.Logger().Error("Failed to generate items template", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Items_Template.xlsx"`)
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleItemsErrorReport returns a handler that turns the import errors the
// editor posts back into a downloadable workbook.
func HandleItemsErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var importErrors []services.ImportError
		if err := json.NewDecoder(e.Request.Body).Decode(&importErrors); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(importErrors)
		if err != nil {
			app.Logger().Error("Failed to generate error report", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Items_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.WriteHeader(http.StatusOK)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
