package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Company.Currency != "KES" {
		t.Errorf("Currency = %q, want %q", cfg.Company.Currency, "KES")
	}
	if cfg.Costing.DefaultTaxRate != 16 {
		t.Errorf("DefaultTaxRate = %v, want 16", cfg.Costing.DefaultTaxRate)
	}
	if cfg.Costing.DefaultLaborPercentage != 36.5 {
		t.Errorf("DefaultLaborPercentage = %v, want 36.5", cfg.Costing.DefaultLaborPercentage)
	}
	if cfg.Costing.TaxMode != "exclusive" {
		t.Errorf("TaxMode = %q, want %q", cfg.Costing.TaxMode, "exclusive")
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics to be enabled by default")
	}
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
app:
  env: prod
company:
  name: Apex Builders Ltd
  currency_symbol: Ksh
costing:
  default_tax_rate: 8
  default_labor_percentage: 36
  include_labor_in_subtotal: true
metrics:
  enabled: false
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Errorf("Env = %q, want %q", cfg.App.Env, "prod")
	}
	if cfg.Company.Name != "Apex Builders Ltd" {
		t.Errorf("Name = %q, want %q", cfg.Company.Name, "Apex Builders Ltd")
	}
	if cfg.Company.CurrencySymbol != "Ksh" {
		t.Errorf("CurrencySymbol = %q, want %q", cfg.Company.CurrencySymbol, "Ksh")
	}
	if cfg.Company.Currency != "KES" {
		t.Errorf("Currency = %q, want default %q", cfg.Company.Currency, "KES")
	}
	if cfg.Costing.DefaultTaxRate != 8 {
		t.Errorf("DefaultTaxRate = %v, want 8", cfg.Costing.DefaultTaxRate)
	}
	if cfg.Costing.DefaultLaborPercentage != 36 {
		t.Errorf("DefaultLaborPercentage = %v, want 36", cfg.Costing.DefaultLaborPercentage)
	}
	if !cfg.Costing.IncludeLaborInSubtotal {
		t.Error("expected include_labor_in_subtotal to be true")
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics to be disabled")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("APP_COSTING_DEFAULT_TAX_RATE", "14")
	t.Setenv("APP_COMPANY_NAME", "From Env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Costing.DefaultTaxRate != 14 {
		t.Errorf("DefaultTaxRate = %v, want 14", cfg.Costing.DefaultTaxRate)
	}
	if cfg.Company.Name != "From Env" {
		t.Errorf("Name = %q, want %q", cfg.Company.Name, "From Env")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("company: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
