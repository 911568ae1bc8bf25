package anomaly

import "fmt"

// DetectionConfig contains configuration for the detection service.
type DetectionConfig struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	ZScoreThreshold    float64 `yaml:"z_score_threshold" json:"z_score_threshold"`
	IQRMultiplier      float64 `yaml:"iqr_multiplier" json:"iqr_multiplier"`
	ModifiedZThreshold float64 `yaml:"modified_z_threshold" json:"modified_z_threshold"`
	MinConfidence      float64 `yaml:"min_confidence" json:"min_confidence"`
}

// DefaultDetectionConfig returns the default detection configuration.
func DefaultDetectionConfig() *DetectionConfig {
	return &DetectionConfig{
		Enabled:            true,
		ZScoreThreshold:    DefaultThreshold,
		IQRMultiplier:      1.5,
		ModifiedZThreshold: 3.5,
		MinConfidence:      0.0,
	}
}

// Validate checks the configuration for invalid values.
func (c *DetectionConfig) Validate() error {
	if c.ZScoreThreshold <= 0 {
		return fmt.Errorf("z_score_threshold must be positive, got %v", c.ZScoreThreshold)
	}
	if c.IQRMultiplier <= 0 {
		return fmt.Errorf("iqr_multiplier must be positive, got %v", c.IQRMultiplier)
	}
	if c.ModifiedZThreshold <= 0 {
		return fmt.Errorf("modified_z_threshold must be positive, got %v", c.ModifiedZThreshold)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %v", c.MinConfidence)
	}
	return nil
}
