/*
Package config loads the application configuration from the environment
(prefix SALON_), optionally seeded from a .env file by the entry point.

All knobs live in one explicit Config value handed to the entry point;
nothing reads the environment after Load returns.
*/
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is the complete runtime configuration.
type Config struct {
	App        AppConfig
	DB         DBConfig
	Commission CommissionConfig
	Validation ValidationConfig
	Report     ReportConfig
	Salon      SalonConfig
}

type AppConfig struct {
	Port     string `envconfig:"SALON_PORT" default:"8080"`
	LogLevel string `envconfig:"SALON_LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	// Path to the SQLite database file; ":memory:" for an ephemeral store.
	Path string `envconfig:"SALON_DB_PATH" default:"salon.db"`
}

type CommissionConfig struct {
	// StrategyJSON selects the payout strategy (see package factory for the
	// schema). Empty selects the shop's historical flat-rate rule.
	StrategyJSON string `envconfig:"SALON_COMMISSION_STRATEGY"`
}

type ValidationConfig struct {
	MinNameLen        int             `envconfig:"SALON_MIN_NAME_LEN" default:"2"`
	MinPhoneDigits    int             `envconfig:"SALON_MIN_PHONE_DIGITS" default:"10"`
	MaxPhoneDigits    int             `envconfig:"SALON_MAX_PHONE_DIGITS" default:"11"`
	MinDescriptionLen int             `envconfig:"SALON_MIN_DESCRIPTION_LEN" default:"3"`
	MinSaleAmount     decimal.Decimal `envconfig:"SALON_MIN_SALE_AMOUNT" default:"0.01"`
	MaxSaleAmount     decimal.Decimal `envconfig:"SALON_MAX_SALE_AMOUNT" default:"10000.00"`
}

type ReportConfig struct {
	// NameNormalization controls per-professional grouping: "exact" keys on
	// the stored string, "lower" folds case. Exact is the default because the
	// booking form writes a fixed professional list.
	NameNormalization string `envconfig:"SALON_NAME_NORMALIZATION" default:"exact"`
}

type SalonConfig struct {
	// Staff and services shown by the (external) UI; the core treats both as
	// open vocabularies and these lists only feed dropdowns.
	Professionals []string `envconfig:"SALON_PROFESSIONALS" default:"Eunides,Evelyn"`
	Services      []string `envconfig:"SALON_SERVICES" default:"Escova,Progressiva,Luzes,Coloração,Botox,Corte,Outros"`
}

// Load reads and validates the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Validation.MinPhoneDigits > c.Validation.MaxPhoneDigits {
		return fmt.Errorf("config: min phone digits (%d) exceeds max (%d)",
			c.Validation.MinPhoneDigits, c.Validation.MaxPhoneDigits)
	}
	if !c.Validation.MinSaleAmount.IsPositive() {
		return fmt.Errorf("config: min sale amount must be positive, got %s", c.Validation.MinSaleAmount)
	}
	if c.Validation.MaxSaleAmount.LessThan(c.Validation.MinSaleAmount) {
		return fmt.Errorf("config: max sale amount %s below min %s",
			c.Validation.MaxSaleAmount, c.Validation.MinSaleAmount)
	}
	switch c.Report.NameNormalization {
	case "exact", "lower":
	default:
		return fmt.Errorf("config: name normalization must be \"exact\" or \"lower\", got %q",
			c.Report.NameNormalization)
	}
	return nil
}
