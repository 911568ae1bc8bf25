package anomaly

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service runs a set of registered outlier detectors over a value series.
// Detection is synchronous: every detector runs in sequence on the caller's
// goroutine, and the service holds no state beyond its detector registry.
type Service struct {
	config    *DetectionConfig
	detectors map[string]OutlierDetector
	order     []string
	tracer    trace.Tracer
}

// DetectionReport aggregates the outcome of one detection run.
type DetectionReport struct {
	Outliers       []*Outlier                 `json:"outliers"`
	DetectorRuns   map[string]*DetectorResult `json:"detector_runs"`
	ProcessedAt    time.Time                  `json:"processed_at"`
	ProcessingTime time.Duration              `json:"processing_time"`
	SampleCount    int                        `json:"sample_count"`
}

// DetectorResult captures one detector's contribution to a run.
type DetectorResult struct {
	DetectorName    string        `json:"detector_name"`
	DetectorVersion string        `json:"detector_version"`
	Outliers        []*Outlier    `json:"outliers"`
	ProcessingTime  time.Duration `json:"processing_time"`
	Error           string        `json:"error,omitempty"`
	Enabled         bool          `json:"enabled"`
}

// NewService creates a detection service with the standard detectors
// registered according to config.
func NewService(config *DetectionConfig) *Service {
	if config == nil {
		config = DefaultDetectionConfig()
	}

	service := &Service{
		config:    config,
		detectors: make(map[string]OutlierDetector),
		tracer:    otel.Tracer("anomaly-service"),
	}

	service.RegisterDetector(NewZScoreDetector(config.ZScoreThreshold))
	service.RegisterDetector(NewIQRDetector(config.IQRMultiplier))
	service.RegisterDetector(NewMADDetector(config.ModifiedZThreshold))

	return service
}

// RegisterDetector adds a detector to the service. Registering a detector
// with an existing name replaces it without changing run order.
func (s *Service) RegisterDetector(detector OutlierDetector) {
	name := detector.GetName()
	if _, exists := s.detectors[name]; !exists {
		s.order = append(s.order, name)
	}
	s.detectors[name] = detector
}

// Detect runs every enabled detector over values and aggregates results.
// Individual detector failures are recorded per-detector and do not abort
// the run.
func (s *Service) Detect(ctx context.Context, values []float64) (*DetectionReport, error) {
	if !s.config.Enabled {
		return nil, fmt.Errorf("anomaly detection is disabled")
	}

	ctx, span := s.tracer.Start(ctx, "anomaly.Detect",
		trace.WithAttributes(
			attribute.Int("sample_count", len(values)),
			attribute.Int("detector_count", len(s.detectors)),
		))
	defer span.End()

	start := time.Now()
	report := &DetectionReport{
		Outliers:     []*Outlier{},
		DetectorRuns: make(map[string]*DetectorResult),
		SampleCount:  len(values),
	}

	for _, name := range s.order {
		detector := s.detectors[name]
		result := &DetectorResult{
			DetectorName:    detector.GetName(),
			DetectorVersion: detector.GetVersion(),
			Enabled:         detector.IsEnabled(),
		}
		report.DetectorRuns[name] = result

		if !detector.IsEnabled() {
			continue
		}

		detectorStart := time.Now()
		outliers, err := s.runDetector(ctx, detector, values)
		result.ProcessingTime = time.Since(detectorStart)

		if err != nil {
			result.Error = err.Error()
			continue
		}

		result.Outliers = outliers
		for _, outlier := range outliers {
			if outlier.Confidence >= s.config.MinConfidence {
				report.Outliers = append(report.Outliers, outlier)
			}
		}
	}

	report.ProcessedAt = time.Now()
	report.ProcessingTime = time.Since(start)

	span.SetAttributes(attribute.Int("outlier_count", len(report.Outliers)))
	return report, nil
}

func (s *Service) runDetector(ctx context.Context, detector OutlierDetector, values []float64) ([]*Outlier, error) {
	ctx, span := s.tracer.Start(ctx, "anomaly.runDetector",
		trace.WithAttributes(attribute.String("detector", detector.GetName())))
	defer span.End()

	return detector.DetectOutliers(ctx, values)
}

// GetDetector returns a registered detector by name.
func (s *Service) GetDetector(name string) (OutlierDetector, bool) {
	detector, ok := s.detectors[name]
	return detector, ok
}

// DetectorNames returns registered detector names in run order.
func (s *Service) DetectorNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}
