package anomaly

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ZScoreDetector flags observations by z-score against the population mean.
type ZScoreDetector struct {
	name      string
	version   string
	enabled   bool
	threshold float64
}

// NewZScoreDetector creates a z-score detector. A non-positive threshold
// falls back to DefaultThreshold.
func NewZScoreDetector(threshold float64) *ZScoreDetector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &ZScoreDetector{
		name:      "z_score_detector",
		version:   "1.0.0",
		enabled:   true,
		threshold: threshold,
	}
}

func (d *ZScoreDetector) GetName() string {
	return d.name
}

func (d *ZScoreDetector) GetVersion() string {
	return d.version
}

func (d *ZScoreDetector) IsEnabled() bool {
	return d.enabled
}

// SetEnabled toggles the detector.
func (d *ZScoreDetector) SetEnabled(enabled bool) {
	d.enabled = enabled
}

func (d *ZScoreDetector) DetectOutliers(ctx context.Context, values []float64) ([]*Outlier, error) {
	result, err := Score(values, d.threshold)
	if err != nil {
		return nil, err
	}

	outliers := make([]*Outlier, 0, len(result.Indices))
	for _, idx := range result.Indices {
		z := result.ZScores[idx]
		outliers = append(outliers, &Outlier{
			ID:              uuid.New(),
			Type:            OutlierTypeZScore,
			Severity:        severityForZScore(math.Abs(z)),
			Index:           idx,
			Value:           values[idx],
			ZScore:          z,
			Score:           math.Min(math.Abs(z)/5.0, 1.0),
			Confidence:      confidenceForZScore(math.Abs(z), len(values)),
			Threshold:       d.threshold,
			DetectedAt:      time.Now(),
			DetectorName:    d.name,
			DetectorVersion: d.version,
		})
	}

	return outliers, nil
}

func severityForZScore(absZ float64) Severity {
	switch {
	case absZ >= 4.0:
		return SeverityCritical
	case absZ >= 3.0:
		return SeverityHigh
	case absZ >= 2.0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// confidenceForZScore combines deviation magnitude with sample size: larger
// samples make the baseline statistics more trustworthy.
func confidenceForZScore(absZ float64, sampleCount int) float64 {
	zConfidence := math.Min(absZ/5.0, 0.9)
	sampleFactor := math.Min(float64(sampleCount)/100.0, 1.0)
	confidence := zConfidence * (0.5 + 0.5*sampleFactor)
	return math.Max(0.1, math.Min(confidence, 0.95))
}

// IQRDetector flags observations outside the interquartile fences.
type IQRDetector struct {
	name       string
	version    string
	enabled    bool
	multiplier float64
}

// NewIQRDetector creates an IQR detector. The conventional multiplier
// is 1.5; non-positive values fall back to it.
func NewIQRDetector(multiplier float64) *IQRDetector {
	if multiplier <= 0 {
		multiplier = 1.5
	}
	return &IQRDetector{
		name:       "iqr_detector",
		version:    "1.0.0",
		enabled:    true,
		multiplier: multiplier,
	}
}

func (d *IQRDetector) GetName() string {
	return d.name
}

func (d *IQRDetector) GetVersion() string {
	return d.version
}

func (d *IQRDetector) IsEnabled() bool {
	return d.enabled
}

func (d *IQRDetector) DetectOutliers(ctx context.Context, values []float64) ([]*Outlier, error) {
	outliers := []*Outlier{}
	if len(values) < 4 {
		return outliers, nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1

	lower := q1 - d.multiplier*iqr
	upper := q3 + d.multiplier*iqr

	for i, value := range values {
		if value < lower || value > upper {
			severity := SeverityMedium
			if iqr > 0 {
				spread := math.Max(lower-value, value-upper) / iqr
				if spread > 2.0 {
					severity = SeverityHigh
				}
			}
			outliers = append(outliers, &Outlier{
				ID:              uuid.New(),
				Type:            OutlierTypeIQR,
				Severity:        severity,
				Index:           i,
				Value:           value,
				Score:           1.0,
				Confidence:      0.8,
				Threshold:       d.multiplier,
				DetectedAt:      time.Now(),
				DetectorName:    d.name,
				DetectorVersion: d.version,
			})
		}
	}

	return outliers, nil
}

// MADDetector implements the modified z-score method, which uses the
// median absolute deviation and tolerates outliers in the baseline itself.
type MADDetector struct {
	name      string
	version   string
	enabled   bool
	threshold float64
}

// NewMADDetector creates a modified z-score detector. The conventional
// threshold is 3.5; non-positive values fall back to it.
func NewMADDetector(threshold float64) *MADDetector {
	if threshold <= 0 {
		threshold = 3.5
	}
	return &MADDetector{
		name:      "mad_detector",
		version:   "1.0.0",
		enabled:   true,
		threshold: threshold,
	}
}

func (d *MADDetector) GetName() string {
	return d.name
}

func (d *MADDetector) GetVersion() string {
	return d.version
}

func (d *MADDetector) IsEnabled() bool {
	return d.enabled
}

func (d *MADDetector) DetectOutliers(ctx context.Context, values []float64) ([]*Outlier, error) {
	outliers := []*Outlier{}
	if len(values) < 3 {
		return outliers, nil
	}

	median := medianOf(values)

	deviations := make([]float64, len(values))
	for i, value := range values {
		deviations[i] = math.Abs(value - median)
	}
	mad := medianOf(deviations)

	if mad == 0 {
		// All values identical.
		return outliers, nil
	}

	for i, value := range values {
		modified := 0.6745 * (value - median) / mad
		if math.Abs(modified) > d.threshold {
			outliers = append(outliers, &Outlier{
				ID:              uuid.New(),
				Type:            OutlierTypeModifiedZ,
				Severity:        severityForZScore(math.Abs(modified)),
				Index:           i,
				Value:           value,
				ZScore:          modified,
				Score:           math.Min(math.Abs(modified)/7.0, 1.0),
				Confidence:      confidenceForZScore(math.Abs(modified), len(values)),
				Threshold:       d.threshold,
				DetectedAt:      time.Now(),
				DetectorName:    d.name,
				DetectorVersion: d.version,
			})
		}
	}

	return outliers, nil
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}
