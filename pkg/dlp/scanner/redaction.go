package scanner

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/types"
)

// Placeholder tokens used by the replace strategy.
var replacementTokens = map[types.PIIType]string{
	types.PIITypeEmail:       "[EMAIL_REDACTED]",
	types.PIITypeSSN:         "[SSN_REDACTED]",
	types.PIITypePhoneNumber: "[PHONE_REDACTED]",
	types.PIITypeCreditCard:  "[CREDIT_CARD_REDACTED]",
	types.PIITypeIPAddress:   "[IP_REDACTED]",
	types.PIITypeAPIKey:      "[API_KEY_REDACTED]",
}

// RedactionEngine rewrites content to remove detected PII.
type RedactionEngine struct {
	name    string
	version string
}

// NewRedactionEngine creates a redaction engine.
func NewRedactionEngine() *RedactionEngine {
	return &RedactionEngine{
		name:    "basic_redaction_engine",
		version: "1.0.0",
	}
}

// RedactContent rewrites content according to the scan result and strategy.
// Findings are applied back-to-front so earlier offsets stay valid.
func (r *RedactionEngine) RedactContent(content string, scanResult *types.ScanResult, strategy types.RedactionStrategy) (string, error) {
	if strategy == types.RedactionNone {
		return content, nil
	}

	findings := make([]types.Finding, len(scanResult.Findings))
	copy(findings, scanResult.Findings)
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].StartPos > findings[j].StartPos
	})

	redacted := content
	lastStart := len(content) + 1
	for _, finding := range findings {
		// Skip findings that overlap one already applied.
		if finding.EndPos > lastStart {
			continue
		}
		replacement, err := r.applyStrategy(finding.Value, finding.Type, strategy)
		if err != nil {
			return "", err
		}
		redacted = redacted[:finding.StartPos] + replacement + redacted[finding.EndPos:]
		lastStart = finding.StartPos
	}

	return redacted, nil
}

// RedactionMap returns the original-to-redacted mapping for a scan result.
func (r *RedactionEngine) RedactionMap(scanResult *types.ScanResult, strategy types.RedactionStrategy) (map[string]string, error) {
	redactionMap := make(map[string]string)
	for _, finding := range scanResult.Findings {
		replacement, err := r.applyStrategy(finding.Value, finding.Type, strategy)
		if err != nil {
			return nil, err
		}
		redactionMap[finding.Value] = replacement
	}
	return redactionMap, nil
}

func (r *RedactionEngine) applyStrategy(value string, piiType types.PIIType, strategy types.RedactionStrategy) (string, error) {
	switch strategy {
	case types.RedactionNone:
		return value, nil
	case types.RedactionReplace:
		return replaceToken(piiType), nil
	case types.RedactionMask:
		return maskValue(value, piiType), nil
	case types.RedactionHash:
		return hashValue(value), nil
	case types.RedactionRemove:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported redaction strategy: %s", strategy)
	}
}

func replaceToken(piiType types.PIIType) string {
	if token, ok := replacementTokens[piiType]; ok {
		return token
	}
	return "[REDACTED]"
}

// maskValue masks a value with asterisks, preserving enough structure to
// recognize the original format.
func maskValue(value string, piiType types.PIIType) string {
	switch piiType {
	case types.PIITypeEmail:
		return maskEmail(value)
	case types.PIITypeSSN:
		return maskTrailing(value, 4)
	case types.PIITypeCreditCard:
		return maskTrailing(value, 4)
	case types.PIITypePhoneNumber:
		return maskTrailing(value, 4)
	default:
		return strings.Repeat("*", len(value))
	}
}

func maskEmail(value string) string {
	at := strings.Index(value, "@")
	if at <= 0 {
		return strings.Repeat("*", len(value))
	}
	local := value[:at]
	masked := string(local[0]) + strings.Repeat("*", len(local)-1)
	return masked + value[at:]
}

// maskTrailing keeps the last keep digits visible and masks all other
// digits, leaving separators in place.
func maskTrailing(value string, keep int) string {
	digitCount := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digitCount++
		}
	}

	var b strings.Builder
	seen := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			seen++
			if seen <= digitCount-keep {
				b.WriteRune('*')
				continue
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return fmt.Sprintf("[HASH:%x]", sum[:6])
}
