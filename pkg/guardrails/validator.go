package guardrails

import (
	"regexp"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/scanner"
	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/types"
)

// threatRule groups the patterns that indicate one threat category.
// Rules run in declaration order and each category is reported at most once.
type threatRule struct {
	category ThreatCategory
	patterns []*regexp.Regexp
}

// Validator screens model input for injection attempts and scrubs PII
// from model output.
type Validator struct {
	name    string
	version string
	rules   []threatRule

	scanner  *scanner.Scanner
	redactor *scanner.RedactionEngine
	piiScope *types.ScanConfig
}

// NewValidator creates a validator with the built-in threat rules.
func NewValidator() *Validator {
	return &Validator{
		name:    "llm_guardrails",
		version: "1.0.0",
		rules: []threatRule{
			{
				category: ThreatPromptInjection,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)ignore\s+(previous|all)\s+instructions`),
					regexp.MustCompile(`(?i)disregard\s+all\s+rules`),
					regexp.MustCompile(`(?i)reveal\s+system\s+prompt`),
				},
			},
			{
				category: ThreatCodeInjection,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)<script.*?>`),
					regexp.MustCompile(`(?i)javascript:`),
					regexp.MustCompile(`(?i)onerror=`),
				},
			},
			{
				category: ThreatSQLInjection,
				patterns: []*regexp.Regexp{
					regexp.MustCompile(`(?i)'.*OR.*=`),
					regexp.MustCompile(`(?i)DROP\s+TABLE`),
					regexp.MustCompile(`(?i);\s*DELETE`),
				},
			},
		},
		scanner:  scanner.NewScanner(),
		redactor: scanner.NewRedactionEngine(),
		// Output sanitization covers the identity PII types only.
		piiScope: &types.ScanConfig{
			EnabledPatterns: []types.PIIType{
				types.PIITypeEmail,
				types.PIITypeSSN,
				types.PIITypePhoneNumber,
			},
		},
	}
}

// GetName returns the validator name.
func (v *Validator) GetName() string {
	return v.name
}

// ValidateInput checks text against every threat rule. A category appears
// in the result once no matter how many of its patterns match.
func (v *Validator) ValidateInput(text string) InputValidation {
	result := InputValidation{
		IsSafe:          true,
		ThreatsDetected: []ThreatCategory{},
	}

	for _, rule := range v.rules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(text) {
				result.ThreatsDetected = append(result.ThreatsDetected, rule.category)
				break
			}
		}
	}

	result.IsSafe = len(result.ThreatsDetected) == 0
	return result
}

// SanitizeOutput replaces emails, SSNs, and phone numbers in text with
// fixed placeholder tokens.
func (v *Validator) SanitizeOutput(text string) (SanitizedOutput, error) {
	scanResult := v.scanner.Scan(text, v.piiScope)

	sanitized, err := v.redactor.RedactContent(text, scanResult, types.RedactionReplace)
	if err != nil {
		return SanitizedOutput{}, err
	}

	return SanitizedOutput{
		SanitizedText: sanitized,
		PIIRemoved:    scanResult.TotalMatches > 0,
	}, nil
}
