// Package config loads storefront settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

// Config holds process settings shared by the worker and the CLI.
type Config struct {
	TemporalHost      string        `env:"TEMPORAL_HOST" envDefault:"localhost:7233"`
	TaskQueue         string        `env:"CHECKOUT_TASK_QUEUE" envDefault:"checkout-task-queue"`
	DBPath            string        `env:"STOREFRONT_DB_PATH" envDefault:"storefront.db"`
	TaxRate           float64       `env:"STOREFRONT_TAX_RATE" envDefault:"0.08"`
	DeclineRate       float64       `env:"STOREFRONT_DECLINE_RATE" envDefault:"0.10"`
	SettlementLatency time.Duration `env:"STOREFRONT_SETTLEMENT_LATENCY" envDefault:"2s"`
	LogLevel          string        `env:"STOREFRONT_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects out-of-range rates and negative latency.
func (c Config) Validate() error {
	if c.TaxRate < 0 || c.TaxRate > 1 {
		return fmt.Errorf("tax rate %v out of range [0,1]", c.TaxRate)
	}
	if c.DeclineRate < 0 || c.DeclineRate > 1 {
		return fmt.Errorf("decline rate %v out of range [0,1]", c.DeclineRate)
	}
	if c.SettlementLatency < 0 {
		return fmt.Errorf("settlement latency %v must not be negative", c.SettlementLatency)
	}
	if c.TaskQueue == "" {
		return fmt.Errorf("task queue is required")
	}
	return nil
}

// Tax returns the tax rate as a decimal.
func (c Config) Tax() decimal.Decimal {
	return decimal.NewFromFloat(c.TaxRate)
}
