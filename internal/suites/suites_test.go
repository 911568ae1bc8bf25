package suites

import (
	"context"
	"testing"

	"github.com/steadhac/ai-threat-analytics-framework/internal/runner"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/config"
)

func TestBuild_AllChecksPass(t *testing.T) {
	cfg := config.Default()
	s := Build(cfg, nil, nil)

	if s.Len() == 0 {
		t.Fatal("Suite should contain checks")
	}

	report := s.Run(context.Background())
	for _, result := range report.Results {
		if result.Status == runner.StatusFailed {
			t.Errorf("Check %s failed: %s", result.Name, result.Error)
		}
	}
	if report.Passed == 0 {
		t.Error("Expected at least one passing check")
	}
}

func TestBuild_ClientCheckSkippedWithoutToken(t *testing.T) {
	cfg := config.Default()
	cfg.API.Token = ""

	s := Build(cfg, nil, nil)
	report := s.Run(context.Background())

	var found bool
	for _, result := range report.Results {
		if result.Name == "client/health-roundtrip" {
			found = true
			if result.Status != runner.StatusSkipped {
				t.Errorf("Client check should skip without a token, got %s", result.Status)
			}
		}
	}
	if !found {
		t.Error("Client check missing from suite")
	}
}

func TestSelect(t *testing.T) {
	cfg := config.Default()
	s := Build(cfg, nil, nil)

	security, err := Select(s, "security")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if security.Len() == 0 || security.Len() >= s.Len() {
		t.Errorf("Security filter should strictly shrink the suite: %d of %d", security.Len(), s.Len())
	}

	all, err := Select(s, "all")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if all.Len() != s.Len() {
		t.Errorf("all should keep every check")
	}

	ai, err := Select(s, "ai")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	pipelines, err := Select(s, "pipelines")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if ai.Len()+pipelines.Len()+security.Len() < s.Len() {
		t.Errorf("Every check should belong to at least one named suite")
	}

	if _, err := Select(s, "nonsense"); err == nil {
		t.Error("Unknown suite name should error")
	}
}
