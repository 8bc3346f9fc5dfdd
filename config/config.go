// Package config loads application configuration from a YAML file with
// APP_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env string
	} `mapstructure:"app"`

	Company struct {
		Name           string
		Currency       string
		CurrencySymbol string `mapstructure:"currency_symbol"`
		CurrencyWord   string `mapstructure:"currency_word"`
		Phone          string
		Email          string
		Address        string
		TaxPIN         string `mapstructure:"tax_pin"`
	} `mapstructure:"company"`

	Costing struct {
		DefaultTaxRate         float64 `mapstructure:"default_tax_rate"`
		DefaultLaborPercentage float64 `mapstructure:"default_labor_percentage"`
		IncludeLaborInSubtotal bool    `mapstructure:"include_labor_in_subtotal"`
		TaxMode                string  `mapstructure:"tax_mode"`
	} `mapstructure:"costing"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")

	v.SetDefault("company.name", "")
	v.SetDefault("company.currency", "KES")
	v.SetDefault("company.currency_symbol", "KES")
	v.SetDefault("company.currency_word", "Shillings")
	v.SetDefault("company.phone", "")
	v.SetDefault("company.email", "")
	v.SetDefault("company.address", "")
	v.SetDefault("company.tax_pin", "")

	v.SetDefault("costing.default_tax_rate", 16.0)
	v.SetDefault("costing.default_labor_percentage", 36.5)
	v.SetDefault("costing.include_labor_in_subtotal", false)
	v.SetDefault("costing.tax_mode", "exclusive")

	v.SetDefault("metrics.enabled", true)
}

// Load reads the config file at path. A missing file is not an error: the
// defaults plus any APP_* environment variables are used instead.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return c, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return c, fmt.Errorf("stat config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}
