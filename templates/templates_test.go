package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render error: %v", err)
	}
	return buf.String()
}

func TestDocumentListContent_EscapesText(t *testing.T) {
	html := render(t, DocumentListContent(DocumentListData{
		Kind:      "quotes",
		KindLabel: "Quotes",
		Rows: []DocumentRowView{
			{ID: "abc", Number: "QT-2026-001", Title: "<script>alert(1)</script>", Status: "sent", Total: "KES 986.00"},
		},
	}))

	if strings.Contains(html, "<script>") {
		t.Error("title was not escaped")
	}
	for _, want := range []string{"QT-2026-001", "/quotes/abc", "KES 986.00", "badge badge-info"} {
		if !strings.Contains(html, want) {
			t.Errorf("list missing %q", want)
		}
	}
}

func TestDocumentListContent_Empty(t *testing.T) {
	html := render(t, DocumentListContent(DocumentListData{Kind: "invoices", KindLabel: "Invoices"}))
	if !strings.Contains(html, "No Invoices yet.") {
		t.Errorf("expected empty state, got %s", html)
	}
}

func TestDocumentViewPage_WrapsLayout(t *testing.T) {
	data := DocumentViewData{
		Kind:      "invoices",
		KindLabel: "Invoice",
		ID:        "inv1",
		Number:    "INV-2026-004",
		Status:    "draft",
		Sections: []SectionView{{
			Name:     "Foundation Works",
			Rows:     []ItemRowView{{Index: "1", Description: "Excavation", Quantity: "12", Amount: "5,400.00"}},
			Subtotal: "KES 5,400.00",
			Labor:    "KES 1,971.00",
		}},
		Totals: TotalsView{TaxLabel: "VAT 16%", GrandTotal: "KES 6,264.00"},
		Drift:  []string{"total_amount"},
	}
	html := render(t, DocumentViewPage(data, HeaderData{CompanyName: "Acme Builders", ActiveKind: "invoices"}))

	for _, want := range []string{
		"<!doctype html>",
		"Invoice INV-2026-004 | Acme Builders",
		"Foundation Works subtotal",
		"/invoices/inv1/export/pdf",
		"id=\"totals-panel\"",
		"KES 6,264.00",
		"total_amount",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestTotalsPanel_DiscountOnlyWhenPresent(t *testing.T) {
	without := render(t, TotalsPanel(TotalsView{TaxLabel: "VAT 16%", Discount: "KES 0.00"}))
	if strings.Contains(without, "Discount") {
		t.Error("discount row rendered without a discount")
	}
	with := render(t, TotalsPanel(TotalsView{TaxLabel: "VAT 16%", Discount: "KES 50.00", HasDiscount: true}))
	if !strings.Contains(with, "-KES 50.00") {
		t.Error("discount row missing")
	}
}

func TestValidationErrors_ListsProblems(t *testing.T) {
	html := render(t, ValidationErrors([]string{"Item 1: description is required", "Tax rate must be between 0 and 100"}))
	if strings.Count(html, "<li>") != 2 {
		t.Errorf("expected 2 problems, got %s", html)
	}
}

func TestSettingsContent_SelectsTaxMode(t *testing.T) {
	html := render(t, SettingsContent(SettingsData{
		CompanyName: "Acme & Sons",
		TaxMode:     "inclusive",
		Errors:      map[string]string{"default_tax_rate": "must be a number"},
	}))
	if !strings.Contains(html, "Acme &amp; Sons") {
		t.Error("company name not escaped")
	}
	if !strings.Contains(html, `value="inclusive" selected`) {
		t.Error("inclusive tax mode not selected")
	}
	if !strings.Contains(html, "must be a number") {
		t.Error("field error not rendered")
	}
}

func TestPage_MarksActiveNavLink(t *testing.T) {
	html := render(t, Page("Quotes", HeaderData{CompanyName: "Acme Builders", ActiveKind: "quotes"}, templ.NopComponent))

	if !strings.Contains(html, `hx-get="/quotes" hx-target="#main-content" hx-push-url="true" class="active"`) {
		t.Errorf("quotes link not active: %s", html)
	}
	if strings.Count(html, `class="active"`) != 1 {
		t.Errorf("expected exactly one active link, got %d", strings.Count(html, `class="active"`))
	}
	if !strings.Contains(html, "<title>Quotes | Acme Builders</title>") {
		t.Error("title missing company name")
	}
}

func TestDocumentViewContent_DriftMessage(t *testing.T) {
	tests := []struct {
		name   string
		issued bool
		want   string
	}{
		{"draft", false, "Stored totals differ from the line items: total_amount"},
		{"issued", true, "Showing the totals recorded when this invoice was issued. The line items now compute different values for: total_amount"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			html := render(t, DocumentViewContent(DocumentViewData{
				Kind:      "invoices",
				KindLabel: "Invoice",
				ID:        "inv1",
				Number:    "INV-2026-004",
				Drift:     []string{"total_amount"},
				Issued:    tc.issued,
			}))
			if !strings.Contains(html, tc.want) {
				t.Errorf("missing %q in %s", tc.want, html)
			}
		})
	}
}

func TestSettingsContent_CheckboxAndFieldValues(t *testing.T) {
	html := render(t, SettingsContent(SettingsData{DefaultTaxRate: "16", IncludeLaborInSubtotal: true}))
	for _, want := range []string{
		`name="default_tax_rate" value="16"`,
		`name="include_labor_in_subtotal" value="true" checked`,
		`<option value="exclusive">Tax added on top</option>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("settings form missing %q", want)
		}
	}
}
