package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"backoffice/config"
)

const settingsCollection = "company_settings"

// Settings is the company profile and costing defaults a request works
// against. It is built from config and then overridden by the
// company_settings record, and passed explicitly to whatever needs it.
type Settings struct {
	CompanyName    string `json:"company_name"`
	CurrencySymbol string `json:"currency_symbol"`
	CurrencyWord   string `json:"currency_word"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	TaxPIN         string `json:"tax_pin"`

	DefaultTaxRate         decimal.Decimal `json:"default_tax_rate"`
	DefaultLaborPercentage decimal.Decimal `json:"default_labor_percentage"`
	IncludeLaborInSubtotal bool            `json:"include_labor_in_subtotal"`
	TaxMode                TaxMode         `json:"tax_mode"`
}

// SettingsFromConfig builds the base settings from the loaded config file.
func SettingsFromConfig(cfg config.Config) Settings {
	s := Settings{
		CompanyName:            cfg.Company.Name,
		CurrencySymbol:         cfg.Company.CurrencySymbol,
		CurrencyWord:           cfg.Company.CurrencyWord,
		Phone:                  cfg.Company.Phone,
		Email:                  cfg.Company.Email,
		Address:                cfg.Company.Address,
		TaxPIN:                 cfg.Company.TaxPIN,
		DefaultTaxRate:         decimal.NewFromFloat(cfg.Costing.DefaultTaxRate),
		DefaultLaborPercentage: decimal.NewFromFloat(cfg.Costing.DefaultLaborPercentage),
		IncludeLaborInSubtotal: cfg.Costing.IncludeLaborInSubtotal,
		TaxMode:                ParseTaxMode(cfg.Costing.TaxMode),
	}
	if s.CurrencySymbol == "" {
		s.CurrencySymbol = cfg.Company.Currency
	}
	return s
}

// DefaultSettings is what SettingsFromConfig yields for an empty config.
func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol:         "KES",
		CurrencyWord:           "Shillings",
		DefaultTaxRate:         DefaultTaxRate,
		DefaultLaborPercentage: DefaultLaborPercentage,
		TaxMode:                TaxExclusive,
	}
}

// LoadSettings overlays the company_settings record, when one exists, on base.
// Blank text fields in the record keep the base value.
func LoadSettings(app core.App, base Settings) (Settings, error) {
	rec, err := findSettingsRecord(app)
	if err != nil {
		return base, err
	}
	if rec == nil {
		return base, nil
	}

	s := base
	overlay := func(dst *string, field string) {
		if v := strings.TrimSpace(rec.GetString(field)); v != "" {
			*dst = v
		}
	}
	overlay(&s.CompanyName, "company_name")
	overlay(&s.CurrencySymbol, "currency_symbol")
	overlay(&s.CurrencyWord, "currency_word")
	overlay(&s.Phone, "phone")
	overlay(&s.Email, "email")
	overlay(&s.Address, "address")
	overlay(&s.TaxPIN, "tax_pin")

	s.DefaultTaxRate = decimal.NewFromFloat(rec.GetFloat("default_tax_rate"))
	if pct := rec.GetFloat("default_labor_percentage"); pct > 0 {
		s.DefaultLaborPercentage = decimal.NewFromFloat(pct)
	}
	s.IncludeLaborInSubtotal = rec.GetBool("include_labor_in_subtotal")
	if mode := rec.GetString("tax_mode"); mode != "" {
		s.TaxMode = ParseTaxMode(mode)
	}
	return s, nil
}

// SaveSettings writes s into the company_settings singleton, creating it on
// first use.
func SaveSettings(app core.App, s Settings) error {
	rec, err := findSettingsRecord(app)
	if err != nil {
		return err
	}
	if rec == nil {
		col, err := app.FindCollectionByNameOrId(settingsCollection)
		if err != nil {
			return fmt.Errorf("find %s collection: %w", settingsCollection, err)
		}
		rec = core.NewRecord(col)
	}

	rec.Set("company_name", s.CompanyName)
	rec.Set("currency_symbol", s.CurrencySymbol)
	rec.Set("currency_word", s.CurrencyWord)
	rec.Set("phone", s.Phone)
	rec.Set("email", s.Email)
	rec.Set("address", s.Address)
	rec.Set("tax_pin", s.TaxPIN)
	rec.Set("default_tax_rate", s.DefaultTaxRate.InexactFloat64())
	rec.Set("default_labor_percentage", s.DefaultLaborPercentage.InexactFloat64())
	rec.Set("include_labor_in_subtotal", s.IncludeLaborInSubtotal)
	rec.Set("tax_mode", string(s.TaxMode))

	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save company settings: %w", err)
	}
	return nil
}

func findSettingsRecord(app core.App) (*core.Record, error) {
	records, err := app.FindRecordsByFilter(settingsCollection, "1=1", "-updated", 1, 0)
	if err != nil {
		return nil, fmt.Errorf("load company settings: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}
