package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"backoffice/testhelpers"
)

func multipartUpload(t *testing.T, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/items/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleItemsImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "Description,Section,Quantity,Unit Cost,Labor %\n" +
		"Site prep,General,1,850,36.5\n" +
		"Excavation,Foundation Works,12,450,\n" +
		"Blocks,Walling,lots,60,36.5\n"

	rec := runHandler(t, app, HandleItemsImport(app), multipartUpload(t, "items.csv", csv))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		TotalRows int           `json:"total_rows"`
		ValidRows int           `json:"valid_rows"`
		ErrorRows int           `json:"error_rows"`
		Items     []itemPayload `json:"items"`
		Errors    []struct {
			Row   int    `json:"row"`
			Field string `json:"field"`
		} `json:"errors"`
	}
	decodeJSON(t, rec, &resp)

	if resp.TotalRows != 3 || resp.ValidRows != 2 || resp.ErrorRows != 1 {
		t.Errorf("rows total/valid/error = %d/%d/%d, want 3/2/1", resp.TotalRows, resp.ValidRows, resp.ErrorRows)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[1].Section != "Foundation Works" {
		t.Errorf("item 2 section = %q", resp.Items[1].Section)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "Quantity" {
		t.Errorf("unexpected errors: %+v", resp.Errors)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "1 of 3 rows have errors") {
		t.Errorf("HX-Trigger = %q", rec.Header().Get("HX-Trigger"))
	}
}

func TestHandleItemsImport_UnsupportedFormat(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := runHandler(t, app, HandleItemsImport(app), multipartUpload(t, "items.txt", "hello"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleItemsImport_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/items/import", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := runHandler(t, app, HandleItemsImport(app), req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleItemsTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := runHandler(t, app, HandleItemsTemplate(app), httptest.NewRequest(http.MethodGet, "/items/template", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Items", "A1"); v != "Description" {
		t.Errorf("A1 = %q, want Description", v)
	}
}

func TestHandleItemsErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := []map[string]any{{"row": 4, "field": "Quantity", "message": "Quantity must be a number"}}
	rec := runHandler(t, app, HandleItemsErrorReport(app), jsonRequest(t, http.MethodPost, "/items/import/errors", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Items_Errors_") {
		t.Errorf("Content-Disposition = %q", cd)
	}
}
