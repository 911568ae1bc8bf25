package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
	if cfg.API.Timeout != 20*time.Second {
		t.Errorf("Expected 20s API timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Anomaly.ZScoreThreshold != 2.0 {
		t.Errorf("Expected z-score threshold 2.0, got %v", cfg.Anomaly.ZScoreThreshold)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
service:
  name: custom-analytics
api:
  base_url: https://api.internal.example.com
  retries: 5
anomaly:
  z_score_threshold: 3.0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Service.Name != "custom-analytics" {
		t.Errorf("Expected service name override, got %q", cfg.Service.Name)
	}
	if cfg.API.BaseURL != "https://api.internal.example.com" {
		t.Errorf("Expected base URL override, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Retries != 5 {
		t.Errorf("Expected retries 5, got %d", cfg.API.Retries)
	}
	if cfg.Anomaly.ZScoreThreshold != 3.0 {
		t.Errorf("Expected z-score threshold 3.0, got %v", cfg.Anomaly.ZScoreThreshold)
	}
	// Untouched sections keep defaults.
	if cfg.Reports.Dir != "reports" {
		t.Errorf("Expected default reports dir, got %q", cfg.Reports.Dir)
	}
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{"logging": {"level": "debug"}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
api:
  token: from-file
`)
	t.Setenv("ATA_API_TOKEN", "from-env")
	t.Setenv("ATA_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Token != "from-env" {
		t.Errorf("Environment should override file, got %q", cfg.API.Token)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected warn level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without file should use defaults: %v", err)
	}
	if cfg.Service.Name != "threat-analytics" {
		t.Errorf("Expected default service name, got %q", cfg.Service.Name)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
anomaly:
  z_score_threshold: -1
`)
	if _, err := Load(path); err == nil {
		t.Error("Negative threshold should fail validation")
	}
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "config.toml", `key = "value"`)
	if _, err := Load(path); err == nil {
		t.Error("Unsupported extension should fail")
	}
}

func TestLoader_DurationFromEnv(t *testing.T) {
	t.Setenv("ATA_API_TIMEOUT", "45s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.Timeout != 45*time.Second {
		t.Errorf("Expected 45s timeout from env, got %v", cfg.API.Timeout)
	}
}

func TestLoader_ListFromEnv(t *testing.T) {
	t.Setenv("ATA_REPORTS_FORMATS", "json, html")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Reports.Formats) != 2 || cfg.Reports.Formats[0] != "json" || cfg.Reports.Formats[1] != "html" {
		t.Errorf("Expected [json html] from env, got %v", cfg.Reports.Formats)
	}
}

func TestValidateConfigPath(t *testing.T) {
	if err := ValidateConfigPath(""); err != nil {
		t.Errorf("Empty path should be valid: %v", err)
	}
	if err := ValidateConfigPath("/nonexistent/config.yaml"); err == nil {
		t.Error("Missing file should fail")
	}

	path := writeTempConfig(t, "ok.yml", "service:\n  name: x\n")
	if err := ValidateConfigPath(path); err != nil {
		t.Errorf("Existing yaml file should be valid: %v", err)
	}
}
