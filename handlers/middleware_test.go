package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"backoffice/services"
	"backoffice/testhelpers"
)

func TestSettingsMiddleware_OverlaysStoredSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	stored := services.DefaultSettings()
	stored.CompanyName = "Mwangi Builders"
	stored.DefaultTaxRate = decimal.NewFromInt(8)
	if err := services.SaveSettings(app, stored); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	base := services.DefaultSettings()
	base.CompanyName = "Configured Co"
	base.Phone = "+254 700 111222"

	req := httptest.NewRequest(http.MethodGet, "/quotes/abc", nil)
	e := newTestRequestEvent(app, req, httptest.NewRecorder())
	if err := SettingsMiddleware(app, base)(e); err != nil {
		t.Fatalf("middleware: %v", err)
	}

	got := GetSettings(e.Request)
	if got.CompanyName != "Mwangi Builders" {
		t.Errorf("company name = %q, want stored value", got.CompanyName)
	}
	if got.Phone != "+254 700 111222" {
		t.Errorf("phone = %q, want configured fallback", got.Phone)
	}
	if !got.DefaultTaxRate.Equal(decimal.NewFromInt(8)) {
		t.Errorf("tax rate = %s", got.DefaultTaxRate)
	}

	header := GetHeaderData(e.Request)
	if header.CompanyName != "Mwangi Builders" || header.ActiveKind != "quotes" {
		t.Errorf("header = %+v", header)
	}
}

func TestGetSettings_DefaultsWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetSettings(req)
	if got.CurrencySymbol != "KES" {
		t.Errorf("currency symbol = %q", got.CurrencySymbol)
	}
	if h := GetHeaderData(req); h.CompanyName != "" || h.ActiveKind != "" {
		t.Errorf("header = %+v, want zero value", h)
	}
}

func TestActiveKind(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/invoices", "invoices"},
		{"/invoices/abc/export/pdf", "invoices"},
		{"/quotes/new", "quotes"},
		{"/templates", "templates"},
		{"/quotesx", ""},
		{"/settings", ""},
		{"/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if got := activeKind(req); got != tt.want {
				t.Errorf("activeKind(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
