package scanner

import (
	"time"

	"github.com/google/uuid"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/patterns"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/types"
)

// Scanner runs every enabled pattern matcher over content and aggregates
// findings into a single scan result.
type Scanner struct {
	name     string
	version  string
	registry *patterns.PatternRegistry
}

// NewScanner creates a scanner with the built-in pattern registry.
func NewScanner() *Scanner {
	return &Scanner{
		name:     "basic_dlp_scanner",
		version:  "1.0.0",
		registry: patterns.NewPatternRegistry(),
	}
}

// GetName returns the scanner name.
func (s *Scanner) GetName() string {
	return s.name
}

// Registry exposes the pattern registry for custom matcher registration.
func (s *Scanner) Registry() *patterns.PatternRegistry {
	return s.registry
}

// Scan checks content against all enabled patterns. A nil config enables
// every pattern with no confidence floor.
func (s *Scanner) Scan(content string, config *types.ScanConfig) *types.ScanResult {
	result := &types.ScanResult{
		ScanID:        uuid.New().String(),
		ScannedAt:     time.Now(),
		Scanner:       s.name,
		Findings:      []types.Finding{},
		ContentLength: len(content),
	}

	minConfidence := 0.0
	if config != nil {
		minConfidence = config.MinConfidence
	}

	for _, matcher := range s.registry.OrderedMatchers() {
		if !matcher.IsEnabled(config) {
			continue
		}

		for _, match := range matcher.Match(content) {
			if match.Confidence < minConfidence {
				continue
			}

			finding := types.Finding{
				ID:         uuid.New().String(),
				Type:       matcher.GetType(),
				Value:      match.Value,
				Confidence: match.Confidence,
				StartPos:   match.StartPos,
				EndPos:     match.EndPos,
				Context:    match.Context,
				RiskLevel:  riskLevelFor(matcher.GetType(), match.Confidence),
			}
			result.Findings = append(result.Findings, finding)

			if finding.RiskLevel == types.RiskLevelHigh || finding.RiskLevel == types.RiskLevelCritical {
				result.HighRiskCount++
			}
		}
	}

	result.TotalMatches = len(result.Findings)
	result.RiskScore = riskScore(result.Findings)

	return result
}

// riskLevelFor maps a PII type and match confidence to a risk level.
// Identity and financial numbers carry inherently higher risk than
// network identifiers.
func riskLevelFor(piiType types.PIIType, confidence float64) types.RiskLevel {
	base := types.RiskLevelMedium
	switch piiType {
	case types.PIITypeSSN, types.PIITypeCreditCard:
		base = types.RiskLevelCritical
	case types.PIITypeAPIKey:
		base = types.RiskLevelHigh
	case types.PIITypeEmail, types.PIITypePhoneNumber:
		base = types.RiskLevelMedium
	case types.PIITypeIPAddress:
		base = types.RiskLevelLow
	}

	if confidence < 0.5 && base == types.RiskLevelCritical {
		return types.RiskLevelHigh
	}
	if confidence < 0.5 && base == types.RiskLevelHigh {
		return types.RiskLevelMedium
	}
	return base
}

// riskScore condenses findings into a 0-1 score.
func riskScore(findings []types.Finding) float64 {
	if len(findings) == 0 {
		return 0
	}

	var total float64
	for _, finding := range findings {
		weight := 0.25
		switch finding.RiskLevel {
		case types.RiskLevelCritical:
			weight = 1.0
		case types.RiskLevelHigh:
			weight = 0.75
		case types.RiskLevelMedium:
			weight = 0.5
		}
		total += weight * finding.Confidence
	}

	score := total / float64(len(findings))
	if score > 1 {
		score = 1
	}
	return score
}
