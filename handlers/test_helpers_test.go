package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"backoffice/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// runHandler executes handler for req and returns the recorded response.
func runHandler(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// jsonRequest builds a request with a JSON body and JSON content type.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// testItem is 1 x 850 at 36.5% labor in the General section.
func testItem(description string) services.LineItem {
	item := services.NewLineItem(decimal.RequireFromString("36.5"))
	item.Description = description
	item.UnitCost = decimal.NewFromInt(850)
	return item
}

// saveTestDocument stores a one-item document of kind at 16% VAT.
func saveTestDocument(t *testing.T, app *pocketbase.PocketBase, kind services.DocumentKind) services.CostDocument {
	t.Helper()
	doc := services.NewCostDocument(kind, services.DefaultSettings())
	doc.Title = "Perimeter wall"
	doc.Items = []services.LineItem{testItem("Site prep")}
	saved, err := services.SaveDocument(app, doc)
	if err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}
	return saved
}
