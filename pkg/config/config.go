// Package config loads framework configuration from YAML/JSON files,
// .env files, and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/anomaly"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/tracing"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "ATA"

// Config is the top-level framework configuration.
type Config struct {
	Service    ServiceConfig           `yaml:"service" json:"service"`
	Logging    LoggingConfig           `yaml:"logging" json:"logging"`
	API        APIConfig               `yaml:"api" json:"api"`
	Anomaly    anomaly.DetectionConfig `yaml:"anomaly" json:"anomaly"`
	Guardrails GuardrailsConfig        `yaml:"guardrails" json:"guardrails"`
	Reports    ReportsConfig           `yaml:"reports" json:"reports"`
	Tracing    tracing.Config          `yaml:"tracing" json:"tracing"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name    string `yaml:"name" json:"name"`
	Version string `yaml:"version" json:"version"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level        string `yaml:"level" json:"level"`
	Format       string `yaml:"format" json:"format"`
	EnableCaller bool   `yaml:"enable_caller" json:"enable_caller"`
}

// APIConfig holds settings for the outbound API client.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Token   string        `yaml:"token" json:"token"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	Retries int           `yaml:"retries" json:"retries"`
}

// GuardrailsConfig controls input validation limits.
type GuardrailsConfig struct {
	MaxInputLength int     `yaml:"max_input_length" json:"max_input_length"`
	MinConfidence  float64 `yaml:"min_confidence" json:"min_confidence"`
}

// ReportsConfig controls run report output.
type ReportsConfig struct {
	Dir     string   `yaml:"dir" json:"dir"`
	Formats []string `yaml:"formats" json:"formats"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    "threat-analytics",
			Version: "1.0.0",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			BaseURL: "https://api.securedemo.example.com",
			Timeout: 20 * time.Second,
			Retries: 3,
		},
		Anomaly: *anomaly.DefaultDetectionConfig(),
		Guardrails: GuardrailsConfig{
			MaxInputLength: 10000,
			MinConfidence:  0.5,
		},
		Reports: ReportsConfig{
			Dir:     "reports",
			Formats: []string{"json", "html"},
		},
		Tracing: *tracing.DefaultConfig(),
	}
}

// Load returns the defaults overlaid with the given config file and
// ATA_* environment variables.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	loader := NewLoader(EnvPrefix)
	if err := loader.Load(configPath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	if c.API.Retries < 0 {
		return fmt.Errorf("api retries must not be negative")
	}
	if c.Guardrails.MaxInputLength <= 0 {
		return fmt.Errorf("guardrails max input length must be positive")
	}
	if c.Guardrails.MinConfidence < 0 || c.Guardrails.MinConfidence > 1 {
		return fmt.Errorf("guardrails min confidence must be in [0, 1]")
	}
	if err := c.Anomaly.Validate(); err != nil {
		return fmt.Errorf("anomaly config: %w", err)
	}
	if c.Reports.Dir == "" {
		return fmt.Errorf("reports dir is required")
	}
	return nil
}
