package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"backoffice/services"
	"backoffice/testhelpers"
)

func newQuoteBody() map[string]any {
	return map[string]any{
		"title": "Boundary wall",
		"items": []map[string]any{
			{"description": "Site prep", "section": "General", "quantity": "1", "unit_cost": "850", "labor_percentage": "36.5"},
			{"description": "Excavation", "section": "Foundation Works", "quantity": 12, "unit_cost": 450, "labor_percentage": 36.5},
		},
	}
}

func TestHandleDocumentCreate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	before := testutil.ToFloat64(documentsSaved.WithLabelValues("quote"))

	req := jsonRequest(t, http.MethodPost, "/quotes", newQuoteBody())
	rec := runHandler(t, app, HandleDocumentCreate(app), req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Document documentPayload `json:"document"`
		Totals   totalsPayload   `json:"totals"`
		URL      string          `json:"url"`
	}
	decodeJSON(t, rec, &body)

	wantNumber := fmt.Sprintf("QT-%d-001", time.Now().Year())
	if body.Document.Number != wantNumber {
		t.Errorf("number = %q, want %q", body.Document.Number, wantNumber)
	}
	// Defaults come from settings: 16% VAT, exclusive.
	if body.Document.TaxMode != "exclusive" || !body.Document.TaxRate.Equal(services.DefaultTaxRate) {
		t.Errorf("defaults not applied: mode %q rate %s", body.Document.TaxMode, body.Document.TaxRate)
	}
	// (850 + 5400) * 1.16
	if body.Totals.Formatted != "KES 7,250.00" {
		t.Errorf("total = %q, want KES 7,250.00", body.Totals.Formatted)
	}

	stored, err := services.LoadDocument(app, services.KindQuote, body.Document.ID)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(stored.Document.Items) != 2 {
		t.Errorf("expected 2 stored items, got %d", len(stored.Document.Items))
	}
	if !stored.Snapshot.GrandTotal.Equal(body.Totals.GrandTotal) {
		t.Errorf("stored total %s != response total %s", stored.Snapshot.GrandTotal, body.Totals.GrandTotal)
	}

	if got := testutil.ToFloat64(documentsSaved.WithLabelValues("quote")); got != before+1 {
		t.Errorf("saved counter = %v, want %v", got, before+1)
	}
}

func TestHandleDocumentCreate_ValidationJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	before := testutil.ToFloat64(documentSaveRejected.WithLabelValues("invoice", "validation"))

	body := map[string]any{
		"items": []map[string]any{{"description": "", "quantity": 0, "unit_cost": 100}},
	}
	rec := runHandler(t, app, HandleDocumentCreate(app), jsonRequest(t, http.MethodPost, "/invoices", body))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var resp struct {
		Errors []string `json:"errors"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Errors) != 2 {
		t.Errorf("expected 2 problems, got %v", resp.Errors)
	}

	invoices, _ := app.FindRecordsByFilter("invoices", "1=1", "", 0, 0, nil)
	if len(invoices) != 0 {
		t.Errorf("rejected invoice was stored")
	}
	if got := testutil.ToFloat64(documentSaveRejected.WithLabelValues("invoice", "validation")); got != before+1 {
		t.Errorf("rejected counter = %v, want %v", got, before+1)
	}
}

func TestHandleDocumentCreate_ValidationHTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/quotes", map[string]any{"items": []map[string]any{}})
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleDocumentCreate(app), req)

	if rec.Header().Get("HX-Retarget") != "#validation-errors" {
		t.Errorf("HX-Retarget = %q", rec.Header().Get("HX-Retarget"))
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Add at least one line item")
}

func TestHandleDocumentCreate_InvalidBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/quotes", nil)
	req.Body = http.NoBody
	rec := runHandler(t, app, HandleDocumentCreate(app), req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleDocumentUpdate_KeepsNumberAndReplacesItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	saved := saveTestDocument(t, app, services.KindInvoice)

	payload := payloadFromDocument(saved)
	payload.Number = ""
	payload.Items[0].Description = "Site clearing"
	payload.Items = append(payload.Items, itemToPayload(testItem("Hoarding")))

	req := jsonRequest(t, http.MethodPost, "/invoices/"+saved.ID+"/save", payload)
	req.SetPathValue("id", saved.ID)
	rec := runHandler(t, app, HandleDocumentUpdate(app), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	stored, err := services.LoadDocument(app, services.KindInvoice, saved.ID)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if stored.Document.Number != saved.Number {
		t.Errorf("number changed: %q -> %q", saved.Number, stored.Document.Number)
	}
	if len(stored.Document.Items) != 2 || stored.Document.Items[0].Description != "Site clearing" {
		t.Errorf("items not replaced: %+v", stored.Document.Items)
	}
	if stored.Document.Items[0].ID != saved.Items[0].ID {
		t.Errorf("existing item was recreated instead of updated")
	}
}

func TestHandleDocumentUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/quotes/missing/save", newQuoteBody())
	req.SetPathValue("id", "missing")
	rec := runHandler(t, app, HandleDocumentUpdate(app), req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleDocumentNew_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodGet, "/templates/new", nil)
	rec := runHandler(t, app, HandleDocumentNew(app), req)

	var body struct {
		Document documentPayload `json:"document"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Document.Items) != 1 {
		t.Fatalf("expected one starter row, got %d", len(body.Document.Items))
	}
	if body.Document.Items[0].Key == "" || !strings.EqualFold(body.Document.Items[0].Section, "General") {
		t.Errorf("unexpected starter row: %+v", body.Document.Items[0])
	}
}

func TestHandleDocumentCreate_NonNumericInputIsZero(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := map[string]any{
		"tax_rate":        "abc",
		"discount_amount": "",
		"items": []map[string]any{
			{"description": "Site prep", "quantity": "", "unit_cost": "850"},
		},
	}
	rec := runHandler(t, app, HandleDocumentCreate(app), jsonRequest(t, http.MethodPost, "/quotes", body))

	// The blank quantity reads as 0, which validation then rejects.
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Errors []string `json:"errors"`
	}
	decodeJSON(t, rec, &resp)
	if len(resp.Errors) != 1 || resp.Errors[0] != "Item 1: quantity must be greater than zero" {
		t.Errorf("errors = %v", resp.Errors)
	}
}

func TestHandleDocumentCreate_NonNumericTaxRateIsZero(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := map[string]any{
		"tax_rate": "abc",
		"items": []map[string]any{
			{"description": "Site prep", "quantity": "2", "unit_cost": "1,000", "labor_percentage": "x"},
		},
	}
	rec := runHandler(t, app, HandleDocumentCreate(app), jsonRequest(t, http.MethodPost, "/quotes", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Totals totalsPayload `json:"totals"`
	}
	decodeJSON(t, rec, &resp)
	if resp.Totals.Formatted != "KES 2,000.00" {
		t.Errorf("total = %q, want KES 2,000.00", resp.Totals.Formatted)
	}
	if !resp.Totals.LaborSubtotal.IsZero() {
		t.Errorf("labor = %s, want 0", resp.Totals.LaborSubtotal)
	}
}
