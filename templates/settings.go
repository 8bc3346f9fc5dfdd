package templates

// SettingsData holds the company settings form values.
type SettingsData struct {
	CompanyName            string
	CurrencySymbol         string
	CurrencyWord           string
	Phone                  string
	Email                  string
	Address                string
	TaxPIN                 string
	DefaultTaxRate         string
	DefaultLaborPercentage string
	IncludeLaborInSubtotal bool
	TaxMode                string
	Errors                 map[string]string
}

type settingsField struct {
	name  string
	label string
	value string
	kind  string
}

func (d SettingsData) fields() []settingsField {
	return []settingsField{
		{"company_name", "Company name", d.CompanyName, "text"},
		{"currency_symbol", "Currency symbol", d.CurrencySymbol, "text"},
		{"currency_word", "Currency in words", d.CurrencyWord, "text"},
		{"phone", "Phone", d.Phone, "text"},
		{"email", "Email", d.Email, "email"},
		{"address", "Address", d.Address, "text"},
		{"tax_pin", "Tax PIN", d.TaxPIN, "text"},
		{"default_tax_rate", "Default tax rate (%)", d.DefaultTaxRate, "text"},
		{"default_labor_percentage", "Default labor (%)", d.DefaultLaborPercentage, "text"},
	}
}

var taxModeChoices = []struct {
	value string
	label string
}{
	{"exclusive", "Tax added on top"},
	{"inclusive", "Prices include tax"},
}
