package anomaly

import (
	"context"
	"testing"
)

func TestZScoreDetector_Basic(t *testing.T) {
	d := NewZScoreDetector(2.0)

	if d.GetName() != "z_score_detector" {
		t.Errorf("Unexpected name %s", d.GetName())
	}
	if !d.IsEnabled() {
		t.Error("Detector should be enabled by default")
	}

	outliers, err := d.DetectOutliers(context.Background(), []float64{10, 12, 11, 13, 12, 100, 10, 12})
	if err != nil {
		t.Fatalf("DetectOutliers failed: %v", err)
	}

	if len(outliers) != 1 {
		t.Fatalf("Expected 1 outlier, got %d", len(outliers))
	}

	outlier := outliers[0]
	if outlier.Index != 5 || outlier.Value != 100 {
		t.Errorf("Expected index 5 value 100, got index %d value %v", outlier.Index, outlier.Value)
	}
	if outlier.Type != OutlierTypeZScore {
		t.Errorf("Unexpected outlier type %s", outlier.Type)
	}
	if outlier.Severity != SeverityMedium {
		t.Errorf("|z| around 2.6 should map to medium severity, got %s", outlier.Severity)
	}
	if outlier.Confidence <= 0 || outlier.Confidence > 0.95 {
		t.Errorf("Confidence out of range: %v", outlier.Confidence)
	}
}

func TestZScoreDetector_FallbackThreshold(t *testing.T) {
	d := NewZScoreDetector(-1)
	if d.threshold != DefaultThreshold {
		t.Errorf("Expected fallback to %v, got %v", DefaultThreshold, d.threshold)
	}
}

func TestSeverityForZScore(t *testing.T) {
	cases := []struct {
		absZ     float64
		expected Severity
	}{
		{1.5, SeverityLow},
		{2.0, SeverityMedium},
		{2.9, SeverityMedium},
		{3.0, SeverityHigh},
		{4.0, SeverityCritical},
		{10.0, SeverityCritical},
	}

	for _, tc := range cases {
		if got := severityForZScore(tc.absZ); got != tc.expected {
			t.Errorf("severityForZScore(%v) = %s, want %s", tc.absZ, got, tc.expected)
		}
	}
}

func TestIQRDetector(t *testing.T) {
	d := NewIQRDetector(1.5)

	outliers, err := d.DetectOutliers(context.Background(), []float64{10, 12, 11, 13, 12, 100, 10, 12})
	if err != nil {
		t.Fatalf("DetectOutliers failed: %v", err)
	}

	if len(outliers) != 1 || outliers[0].Index != 5 {
		t.Fatalf("Expected only index 5 flagged, got %+v", outliers)
	}

	// Too few values for quartiles.
	outliers, err = d.DetectOutliers(context.Background(), []float64{1, 2, 100})
	if err != nil {
		t.Fatalf("DetectOutliers failed: %v", err)
	}
	if len(outliers) != 0 {
		t.Errorf("Expected no outliers for short series, got %d", len(outliers))
	}
}

func TestMADDetector(t *testing.T) {
	d := NewMADDetector(3.5)

	outliers, err := d.DetectOutliers(context.Background(), []float64{10, 12, 11, 13, 12, 100, 10, 12})
	if err != nil {
		t.Fatalf("DetectOutliers failed: %v", err)
	}
	if len(outliers) != 1 || outliers[0].Index != 5 {
		t.Fatalf("Expected only index 5 flagged, got %+v", outliers)
	}

	// Zero MAD: all values identical.
	outliers, err = d.DetectOutliers(context.Background(), []float64{7, 7, 7, 7})
	if err != nil {
		t.Fatalf("DetectOutliers failed: %v", err)
	}
	if len(outliers) != 0 {
		t.Errorf("Identical values should produce no outliers, got %d", len(outliers))
	}
}

func TestService_Detect(t *testing.T) {
	service := NewService(nil)

	report, err := service.Detect(context.Background(), []float64{10, 12, 11, 13, 12, 100, 10, 12})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if report.SampleCount != 8 {
		t.Errorf("Expected sample count 8, got %d", report.SampleCount)
	}
	if len(report.DetectorRuns) != 3 {
		t.Errorf("Expected 3 detector runs, got %d", len(report.DetectorRuns))
	}
	if len(report.Outliers) == 0 {
		t.Error("Expected at least one outlier in aggregate")
	}

	for name, run := range report.DetectorRuns {
		if run.Error != "" {
			t.Errorf("Detector %s reported error: %s", name, run.Error)
		}
		for _, outlier := range run.Outliers {
			if outlier.Index != 5 {
				t.Errorf("Detector %s flagged unexpected index %d", name, outlier.Index)
			}
		}
	}
}

func TestService_Disabled(t *testing.T) {
	config := DefaultDetectionConfig()
	config.Enabled = false
	service := NewService(config)

	if _, err := service.Detect(context.Background(), []float64{1, 2, 3}); err == nil {
		t.Error("Detect should fail when detection is disabled")
	}
}

func TestService_DetectorRegistry(t *testing.T) {
	service := NewService(nil)

	names := service.DetectorNames()
	if len(names) != 3 {
		t.Fatalf("Expected 3 detectors, got %v", names)
	}

	if _, ok := service.GetDetector("z_score_detector"); !ok {
		t.Error("z_score_detector should be registered")
	}
	if _, ok := service.GetDetector("missing"); ok {
		t.Error("Unknown detector should not be found")
	}
}

func TestDetectionConfig_Validate(t *testing.T) {
	config := DefaultDetectionConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}

	config.ZScoreThreshold = 0
	if err := config.Validate(); err == nil {
		t.Error("Zero z-score threshold should fail validation")
	}

	config = DefaultDetectionConfig()
	config.MinConfidence = 1.5
	if err := config.Validate(); err == nil {
		t.Error("Out-of-range confidence should fail validation")
	}
}
