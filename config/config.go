// Package config loads the dashboard client configuration from a YAML (or
// JSON) file, with environment variables taking precedence for the secrets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete client configuration.
type Config struct {
	API     APIConfig     `json:"api" yaml:"api"`
	Session SessionConfig `json:"session" yaml:"session"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// APIConfig locates the backend and bounds request budgets.
type APIConfig struct {
	BaseURL               string `json:"base_url" yaml:"base_url"`
	TimeoutSeconds        int    `json:"timeout_seconds" yaml:"timeout_seconds"`
	HistoryTimeoutSeconds int    `json:"history_timeout_seconds" yaml:"history_timeout_seconds"`
}

// Timeout returns the per-call budget for normal requests.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// HistoryTimeout returns the budget for the equity-history fetch.
func (a APIConfig) HistoryTimeout() time.Duration {
	return time.Duration(a.HistoryTimeoutSeconds) * time.Second
}

// SessionConfig controls where the auth token lives between runs.
type SessionConfig struct {
	TokenFile string `json:"token_file" yaml:"token_file"`
}

// JournalConfig controls the optional local journal.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// Env var names honored as overrides (highest precedence).
const (
	EnvBaseURL = "MICROFOLIO_BASE_URL"
	EnvToken   = "MICROFOLIO_TOKEN"
)

// LoadFromFile loads configuration from a file (YAML or JSON) and applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

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

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.API.BaseURL = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must start with http:// or https://")
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive")
	}
	if c.API.HistoryTimeoutSeconds < c.API.TimeoutSeconds {
		return fmt.Errorf("api.history_timeout_seconds must be at least api.timeout_seconds")
	}
	switch c.Journal.Type {
	case "":
		// journaling disabled
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be empty, 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:               "http://localhost:5000",
			TimeoutSeconds:        15,
			HistoryTimeoutSeconds: 30,
		},
		Session: SessionConfig{
			TokenFile: defaultTokenFile(),
		},
		Journal: JournalConfig{
			Type: "",
		},
	}
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".microfolio-token"
	}
	return home + "/.microfolio-token"
}
