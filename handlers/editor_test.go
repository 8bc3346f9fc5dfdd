package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"backoffice/services"
	"backoffice/testhelpers"
)

// editorDocument is a two-section quote: Site prep 1 x 850 and
// Excavation 12 x 450, both at 36.5% labor.
func editorDocument() documentPayload {
	doc := services.NewCostDocument(services.KindQuote, services.DefaultSettings())
	second := testItem("Excavation")
	second.Section = "Foundation Works"
	second.Quantity = decimal.NewFromInt(12)
	second.UnitCost = decimal.NewFromInt(450)
	doc.Items = services.Renumber([]services.LineItem{testItem("Site prep"), second})
	return payloadFromDocument(doc)
}

func applyCommand(t *testing.T, doc documentPayload, cmd editorCommand) (*httptest.ResponseRecorder, editorResponse) {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	req := jsonRequest(t, http.MethodPost, "/editor/apply", editorRequest{Kind: "quote", Document: doc, Command: cmd})
	rec := runHandler(t, app, HandleEditorApply(app), req)

	var resp editorResponse
	if rec.Code == http.StatusOK {
		decodeJSON(t, rec, &resp)
	}
	return rec, resp
}

func TestHandleEditorApply_AddItem(t *testing.T) {
	rec, resp := applyCommand(t, editorDocument(), editorCommand{Op: opAddItem})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(resp.Document.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(resp.Document.Items))
	}
	added := resp.Document.Items[2]
	if added.Key == "" || added.Section != services.DefaultSection {
		t.Errorf("unexpected new row: %+v", added)
	}
	if !added.LaborPercentage.Equal(services.DefaultLaborPercentage) {
		t.Errorf("new row labor = %s, want default", added.LaborPercentage)
	}
	// The blank row is reported but does not block editing.
	if len(resp.Problems) == 0 {
		t.Error("expected validation problems for the blank row")
	}
}

func TestHandleEditorApply_RemoveItem(t *testing.T) {
	doc := editorDocument()
	rec, resp := applyCommand(t, doc, editorCommand{Op: opRemoveItem, Key: doc.Items[0].Key})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(resp.Document.Items) != 1 || resp.Document.Items[0].Description != "Excavation" {
		t.Errorf("unexpected items after remove: %+v", resp.Document.Items)
	}
	// 5400 * 1.16
	if !resp.Totals.GrandTotal.Equal(decimal.NewFromInt(6264)) {
		t.Errorf("grand total = %s, want 6264", resp.Totals.GrandTotal)
	}
}

func TestHandleEditorApply_RemoveLastItemRefused(t *testing.T) {
	doc := editorDocument()
	doc.Items = doc.Items[:1]
	rec, _ := applyCommand(t, doc, editorCommand{Op: opRemoveItem, Key: doc.Items[0].Key})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rec.Code)
	}
}

func TestHandleEditorApply_EditLaborChargeBackComputesPercentage(t *testing.T) {
	doc := editorDocument()
	rec, resp := applyCommand(t, doc, editorCommand{
		Op:    opEditItem,
		Key:   doc.Items[0].Key,
		Field: "labor_charge",
		Value: "425",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	item := resp.Document.Items[0]
	if !item.LaborPercentage.Equal(decimal.NewFromInt(50)) {
		t.Errorf("labor percentage = %s, want 50", item.LaborPercentage)
	}
	if !item.LaborCharge.Valid || !item.LaborCharge.Decimal.Equal(decimal.NewFromInt(425)) {
		t.Errorf("labor charge = %+v, want 425", item.LaborCharge)
	}
	// 425 + 5400 * 0.365
	if !resp.Totals.LaborSubtotal.Equal(decimal.NewFromInt(2396)) {
		t.Errorf("labor subtotal = %s, want 2396", resp.Totals.LaborSubtotal)
	}
}

func TestHandleEditorApply_EditErrors(t *testing.T) {
	doc := editorDocument()
	tests := []struct {
		name string
		cmd  editorCommand
		want int
	}{
		{"unknown_field", editorCommand{Op: opEditItem, Key: doc.Items[0].Key, Field: "colour", Value: "red"}, http.StatusBadRequest},
		{"unknown_item", editorCommand{Op: opEditItem, Key: "nope", Field: "quantity", Value: "2"}, http.StatusNotFound},
		{"unknown_op", editorCommand{Op: "duplicate"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := applyCommand(t, doc, tt.cmd)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleEditorApply_RenameSection(t *testing.T) {
	rec, resp := applyCommand(t, editorDocument(), editorCommand{Op: opRenameSection, From: "Foundation Works", To: "Substructure"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var names []string
	for _, s := range resp.Sections {
		names = append(names, s.Name)
	}
	if diff := cmp.Diff([]string{"General", "Substructure"}, names); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleTotalsPreview_JSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	doc := editorDocument()
	doc.TaxMode = "inclusive"

	rec := runHandler(t, app, HandleTotalsPreview(app), jsonRequest(t, http.MethodPost, "/totals/preview", doc))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp editorResponse
	decodeJSON(t, rec, &resp)

	// Inclusive: 6250 already contains 16% VAT.
	if !resp.Totals.GrandTotal.Equal(decimal.NewFromInt(6250)) {
		t.Errorf("grand total = %s, want 6250", resp.Totals.GrandTotal)
	}
	if !resp.Totals.TaxAmount.Equal(decimal.RequireFromString("862.07")) {
		t.Errorf("tax = %s, want 862.07", resp.Totals.TaxAmount)
	}
	if resp.Totals.TaxMode != "inclusive" {
		t.Errorf("tax mode = %q", resp.Totals.TaxMode)
	}
}

func TestHandleTotalsPreview_HTMX(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := jsonRequest(t, http.MethodPost, "/totals/preview", editorDocument())
	req.Header.Set("HX-Request", "true")
	rec := runHandler(t, app, HandleTotalsPreview(app), req)

	testhelpers.AssertHTMLContains(t, rec.Body.String(), `id="totals-panel"`, "VAT 16%", "KES 7,250.00")
}

// looseDocumentBody is a quote whose first row carries qty as sent by the
// browser; the second row is 12 x 450 at 36.5% labor.
func looseDocumentBody(qty any) map[string]any {
	return map[string]any{
		"tax_rate":        "16",
		"discount_amount": "",
		"items": []map[string]any{
			{"key": "a", "description": "Site prep", "quantity": qty, "unit_cost": "850", "labor_percentage": "36.5", "labor_charge": ""},
			{"key": "b", "description": "Excavation", "quantity": 12, "unit_cost": 450, "labor_percentage": 36.5, "labor_charge": "n/a"},
		},
	}
}

func TestHandleTotalsPreview_NonNumericInputIsZero(t *testing.T) {
	tests := []struct {
		name string
		qty  any
	}{
		{"blank", ""},
		{"garbage", "abc"},
		{"null", nil},
		{"object", map[string]any{"x": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)

			req := jsonRequest(t, http.MethodPost, "/totals/preview", looseDocumentBody(tt.qty))
			rec := runHandler(t, app, HandleTotalsPreview(app), req)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp editorResponse
			decodeJSON(t, rec, &resp)

			// Only 12 x 450 counts: 5400 * 1.16.
			if !resp.Totals.GrandTotal.Equal(decimal.NewFromInt(6264)) {
				t.Errorf("grand total = %s, want 6264", resp.Totals.GrandTotal)
			}
			if !resp.Totals.LaborSubtotal.Equal(decimal.NewFromInt(1971)) {
				t.Errorf("labor = %s, want 1971", resp.Totals.LaborSubtotal)
			}
			if !resp.Document.Items[0].Quantity.IsZero() {
				t.Errorf("quantity = %s, want 0", resp.Document.Items[0].Quantity)
			}
			if resp.Document.Items[1].LaborCharge.Valid {
				t.Error("non-numeric labor charge should leave the override unset")
			}
		})
	}
}

func TestHandleEditorApply_NonNumericInputIsZero(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := map[string]any{
		"kind":     "quote",
		"document": looseDocumentBody("abc"),
		"command":  map[string]any{"op": opEditItem, "key": "b", "field": "quantity", "value": 2},
	}
	rec := runHandler(t, app, HandleEditorApply(app), jsonRequest(t, http.MethodPost, "/editor/apply", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp editorResponse
	decodeJSON(t, rec, &resp)

	// 2 x 450 * 1.16
	if !resp.Totals.GrandTotal.Equal(decimal.NewFromInt(1044)) {
		t.Errorf("grand total = %s, want 1044", resp.Totals.GrandTotal)
	}
}

func TestHandleTotalsPreview_LargeTotalSpelledOut(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := looseDocumentBody("5000000000")
	rec := runHandler(t, app, HandleTotalsPreview(app), jsonRequest(t, http.MethodPost, "/totals/preview", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp editorResponse
	decodeJSON(t, rec, &resp)
	if !strings.Contains(resp.Totals.AmountInWords, "Trillion") {
		t.Errorf("amount in words = %q", resp.Totals.AmountInWords)
	}
}
