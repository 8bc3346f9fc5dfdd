package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"backoffice/services"
	"backoffice/templates"
)

func settingsData(s services.Settings) templates.SettingsData {
	return templates.SettingsData{
		CompanyName:            s.CompanyName,
		CurrencySymbol:         s.CurrencySymbol,
		CurrencyWord:           s.CurrencyWord,
		Phone:                  s.Phone,
		Email:                  s.Email,
		Address:                s.Address,
		TaxPIN:                 s.TaxPIN,
		DefaultTaxRate:         s.DefaultTaxRate.String(),
		DefaultLaborPercentage: s.DefaultLaborPercentage.String(),
		IncludeLaborInSubtotal: s.IncludeLaborInSubtotal,
		TaxMode:                string(s.TaxMode),
		Errors:                 make(map[string]string),
	}
}

func renderSettings(e *core.RequestEvent, data templates.SettingsData) error {
	var component templ.Component
	if e.Request.Header.Get("HX-Request") == "true" {
		component = templates.SettingsContent(data)
	} else {
		component = templates.SettingsPage(data, GetHeaderData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// parsePercent reads a 0-100 percentage form value.
func parsePercent(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil || d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, false
	}
	return d, true
}

// HandleSettings returns a handler that renders the company settings form.
func HandleSettings(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		settings := GetSettings(e.Request)
		if wantsJSON(e.Request) {
			return e.JSON(http.StatusOK, settings)
		}
		return renderSettings(e, settingsData(settings))
	}
}

// HandleSettingsSave returns a handler that validates and stores the company
// settings form.
func HandleSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		s := GetSettings(e.Request)
		s.CompanyName = strings.TrimSpace(e.Request.FormValue("company_name"))
		s.CurrencySymbol = strings.TrimSpace(e.Request.FormValue("currency_symbol"))
		s.CurrencyWord = strings.TrimSpace(e.Request.FormValue("currency_word"))
		s.Phone = strings.TrimSpace(e.Request.FormValue("phone"))
		s.Email = strings.TrimSpace(e.Request.FormValue("email"))
		s.Address = strings.TrimSpace(e.Request.FormValue("address"))
		s.TaxPIN = strings.TrimSpace(strings.ToUpper(e.Request.FormValue("tax_pin")))
		s.IncludeLaborInSubtotal = e.Request.FormValue("include_labor_in_subtotal") == "true"
		s.TaxMode = services.ParseTaxMode(e.Request.FormValue("tax_mode"))

		errors := make(map[string]string)
		if rate, ok := parsePercent(e.Request.FormValue("default_tax_rate")); ok {
			s.DefaultTaxRate = rate
		} else {
			errors["default_tax_rate"] = "Enter a rate between 0 and 100"
		}
		if pct, ok := parsePercent(e.Request.FormValue("default_labor_percentage")); ok {
			s.DefaultLaborPercentage = pct
		} else {
			errors["default_labor_percentage"] = "Enter a percentage between 0 and 100"
		}

		if len(errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			data := settingsData(s)
			data.DefaultTaxRate = e.Request.FormValue("default_tax_rate")
			data.DefaultLaborPercentage = e.Request.FormValue("default_labor_percentage")
			data.Errors = errors
			return renderSettings(e, data)
		}

		if err := services.SaveSettings(app, s); err != nil {
			app.Logger().Error("Failed to save company settings", "error", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		app.Logger().Info("Company settings saved")

		// Re-read so blank fields show the configured fallback.
		base := services.DefaultSettings()
		if cfg, ok := e.Request.Context().Value(baseSettingsKey).(services.Settings); ok {
			base = cfg
		}
		saved, err := services.LoadSettings(app, base)
		if err != nil {
			saved = s
		}

		SetToast(e, "success", "Settings saved")
		return renderSettings(e, settingsData(saved))
	}
}
