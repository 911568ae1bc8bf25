package types

import "time"

// PIIType represents different types of personally identifiable information
type PIIType string

const (
	PIITypeEmail       PIIType = "email"
	PIITypeSSN         PIIType = "ssn"
	PIITypePhoneNumber PIIType = "phone_number"
	PIITypeCreditCard  PIIType = "credit_card"
	PIITypeIPAddress   PIIType = "ip_address"
	PIITypeAPIKey      PIIType = "api_key"
)

// RiskLevel represents the risk level of a finding
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// RedactionStrategy defines how PII should be redacted
type RedactionStrategy string

const (
	RedactionNone    RedactionStrategy = "none"
	RedactionMask    RedactionStrategy = "mask"
	RedactionReplace RedactionStrategy = "replace"
	RedactionHash    RedactionStrategy = "hash"
	RedactionRemove  RedactionStrategy = "remove"
)

// Match represents a raw pattern match within content
type Match struct {
	Value      string  `json:"value"`
	StartPos   int     `json:"start_pos"`
	EndPos     int     `json:"end_pos"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

// Finding represents a detected PII instance
type Finding struct {
	ID         string    `json:"id"`
	Type       PIIType   `json:"type"`
	Value      string    `json:"value"`
	Confidence float64   `json:"confidence"`
	StartPos   int       `json:"start_pos"`
	EndPos     int       `json:"end_pos"`
	Context    string    `json:"context"`
	RiskLevel  RiskLevel `json:"risk_level"`
}

// ScanResult contains the results of a DLP scan
type ScanResult struct {
	ScanID        string    `json:"scan_id"`
	ScannedAt     time.Time `json:"scanned_at"`
	Scanner       string    `json:"scanner"`
	TotalMatches  int       `json:"total_matches"`
	HighRiskCount int       `json:"high_risk_count"`
	Findings      []Finding `json:"findings"`
	RiskScore     float64   `json:"risk_score"`
	ContentLength int       `json:"content_length"`
}

// ScanConfig controls which patterns a scan applies
type ScanConfig struct {
	EnabledPatterns  []PIIType `json:"enabled_patterns,omitempty"`
	DisabledPatterns []PIIType `json:"disabled_patterns,omitempty"`
	MinConfidence    float64   `json:"min_confidence"`
}
