// Package config provides configuration loading for ticketplumber.
// Supports YAML files, .env files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pyhub-apps/ticketplumber-golang/pkg/extract"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/layout"
	"github.com/pyhub-apps/ticketplumber-golang/pkg/pdf"
)

// Config holds all configuration for ticketplumber.
type Config struct {
	Log     LogConfig      `yaml:"log"`
	Layout  LayoutConfig   `yaml:"layout"`
	PDF     PDFConfig      `yaml:"pdf"`
	Extract extract.Config `yaml:"extract"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// LayoutConfig holds line reconstruction settings.
type LayoutConfig struct {
	BucketSize float64 `yaml:"bucket_size"`
}

// PDFConfig holds PDF decoding settings.
type PDFConfig struct {
	Backend  string `yaml:"backend"` // auto, ledongthuc or dslipak
	Workers  int    `yaml:"workers"`
	Validate bool   `yaml:"validate"`
}

// Load reads configuration from an optional YAML file, then applies .env
// and environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	// A missing .env is normal; only malformed files are reported.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Layout: LayoutConfig{
			BucketSize: layout.DefaultBucketSize,
		},
		PDF: PDFConfig{
			Backend:  string(pdf.BackendAuto),
			Workers:  4,
			Validate: true,
		},
		Extract: extract.DefaultConfig(),
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Layout.BucketSize <= 0 {
		return fmt.Errorf("bucket_size must be positive, got %v", c.Layout.BucketSize)
	}

	if c.PDF.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.PDF.Workers)
	}

	if _, ok := pdf.ParseBackend(c.PDF.Backend); !ok {
		return fmt.Errorf("invalid pdf backend: %s", c.PDF.Backend)
	}

	if c.Extract.PassengerWindow < 1 {
		return fmt.Errorf("passenger_window must be at least 1, got %d", c.Extract.PassengerWindow)
	}

	if c.Extract.FallbackLookback < 1 {
		return fmt.Errorf("fallback_lookback must be at least 1, got %d", c.Extract.FallbackLookback)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// Backend returns the configured PDF backend.
func (c *Config) Backend() pdf.Backend {
	b, _ := pdf.ParseBackend(c.PDF.Backend)
	return b
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TICKET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("TICKET_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := os.Getenv("TICKET_PDF_BACKEND"); v != "" {
		cfg.PDF.Backend = v
	}

	if v := os.Getenv("TICKET_BUCKET_SIZE"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TICKET_BUCKET_SIZE: %w", err)
		}
		cfg.Layout.BucketSize = size
	}

	if v := os.Getenv("TICKET_PDF_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICKET_PDF_WORKERS: %w", err)
		}
		cfg.PDF.Workers = n
	}

	if v := os.Getenv("TICKET_PASSENGER_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICKET_PASSENGER_WINDOW: %w", err)
		}
		cfg.Extract.PassengerWindow = n
	}

	return nil
}
