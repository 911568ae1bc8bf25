package anomaly

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutlierType identifies the kind of outlier a detector reports.
type OutlierType string

const (
	OutlierTypeZScore    OutlierType = "z_score"
	OutlierTypeIQR       OutlierType = "iqr"
	OutlierTypeModifiedZ OutlierType = "modified_z_score"
)

// Severity represents how far an observation deviates from its population.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Outlier is a single flagged observation with its detection context.
type Outlier struct {
	ID         uuid.UUID   `json:"id"`
	Type       OutlierType `json:"type"`
	Severity   Severity    `json:"severity"`
	Index      int         `json:"index"`
	Value      float64     `json:"value"`
	ZScore     float64     `json:"z_score,omitempty"`
	Score      float64     `json:"score"`      // normalized 0-1
	Confidence float64     `json:"confidence"` // detection confidence 0-1
	Threshold  float64     `json:"threshold"`
	DetectedAt time.Time   `json:"detected_at"`

	DetectorName    string `json:"detector_name"`
	DetectorVersion string `json:"detector_version"`
}

// OutlierDetector is the interface implemented by all detection methods.
type OutlierDetector interface {
	GetName() string
	GetVersion() string
	IsEnabled() bool
	DetectOutliers(ctx context.Context, values []float64) ([]*Outlier, error)
}
