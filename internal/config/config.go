// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// DefaultConcurrency is the number of profiles a batch renders at once.
const DefaultConcurrency = 4

// DefaultGeneratedBy is written to the author metadata of exported PDFs.
const DefaultGeneratedBy = "Business Profile Exporter"

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	OutputDir    string `json:"output_dir,omitempty"`    // Directory exported PDFs are written to
	DatabaseURL  string `json:"database_url,omitempty"`  // PostgreSQL connection URL
	MailEndpoint string `json:"mail_endpoint,omitempty"` // Mail relay that accepts multipart posts
	MailFrom     string `json:"mail_from,omitempty"`     // Sender address passed to the relay
	GeneratedBy  string `json:"generated_by,omitempty"`  // PDF author metadata
	Verbose      bool   `json:"verbose,omitempty"`       // Print detailed debug information
	Concurrency  int    `json:"concurrency,omitempty"`   // Batch workers (0 = default)
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from DATABASE_URL, MAIL_ENDPOINT, MAIL_FROM and
// OUTPUT_DIR. It is used as the fallback layer beneath a config file.
func FromEnv() Config {
	return Config{
		OutputDir:    os.Getenv("OUTPUT_DIR"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MailEndpoint: os.Getenv("MAIL_ENDPOINT"),
		MailFrom:     os.Getenv("MAIL_FROM"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}

	if c.MailEndpoint != "" {
		u, err := url.Parse(c.MailEndpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: 'mail_endpoint' is not a valid URL: %s", c.MailEndpoint)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("config error: 'mail_endpoint' must use http or https")
		}
	}

	if c.OutputDir != "" {
		if info, err := os.Stat(c.OutputDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: output_dir is not a directory: %s", c.OutputDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.MailEndpoint == "" {
		result.MailEndpoint = defaults.MailEndpoint
	}
	if result.MailFrom == "" {
		result.MailFrom = defaults.MailFrom
	}
	if result.GeneratedBy == "" {
		result.GeneratedBy = defaults.GeneratedBy
	}
	if result.GeneratedBy == "" {
		result.GeneratedBy = DefaultGeneratedBy
	}

	if result.Concurrency == 0 {
		if defaults.Concurrency > 0 {
			result.Concurrency = defaults.Concurrency
		} else {
			result.Concurrency = DefaultConcurrency
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
