// Package config loads and validates the tool configuration from YAML
// or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matteolongo/swing-screener-sub002/backtest"
	"github.com/matteolongo/swing-screener-sub002/stops"
)

// Config is the complete tool configuration.
type Config struct {
	Account  AccountConfig   `json:"account" yaml:"account"`
	Stops    stops.Rules     `json:"stops" yaml:"stops"`
	Backtest backtest.Params `json:"backtest" yaml:"backtest"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
}

// AccountConfig holds the trading account parameters.
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Size     float64 `json:"size" yaml:"size"`
}

// JournalConfig selects where backtest output is persisted.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, picking the format by extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Size < 0 {
		return fmt.Errorf("account.size must not be negative")
	}
	if err := c.Stops.Validate(); err != nil {
		return fmt.Errorf("stops: %w", err)
	}
	if err := c.Backtest.Validate(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for csv journal")
		}
	case "":
		// Journaling is optional.
	default:
		return fmt.Errorf("journal.type must be 'sqlite' or 'csv', got %q", c.Journal.Type)
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "EUR",
			Size:     50_000,
		},
		Stops:    stops.DefaultRules(),
		Backtest: backtest.DefaultParams(),
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./swing.sqlite",
		},
	}
}
