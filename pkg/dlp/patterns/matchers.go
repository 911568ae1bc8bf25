package patterns

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/steadhac/ai-threat-analytics-framework/pkg/dlp/types"
)

// PatternMatcher is implemented by all PII pattern matchers.
type PatternMatcher interface {
	GetName() string
	GetType() types.PIIType
	Match(content string) []types.Match
	IsEnabled(config *types.ScanConfig) bool
}

// PatternRegistry manages all available pattern matchers in a fixed order.
type PatternRegistry struct {
	order    []types.PIIType
	matchers map[types.PIIType]PatternMatcher
}

// NewPatternRegistry creates a registry with the built-in matchers.
func NewPatternRegistry() *PatternRegistry {
	registry := &PatternRegistry{
		matchers: make(map[types.PIIType]PatternMatcher),
	}

	registry.RegisterMatcher(NewEmailMatcher())
	registry.RegisterMatcher(NewSSNMatcher())
	registry.RegisterMatcher(NewPhoneNumberMatcher())
	registry.RegisterMatcher(NewCreditCardMatcher())
	registry.RegisterMatcher(NewIPAddressMatcher())
	registry.RegisterMatcher(NewAPIKeyMatcher())

	return registry
}

// RegisterMatcher registers a matcher, appending it to the scan order.
func (pr *PatternRegistry) RegisterMatcher(matcher PatternMatcher) {
	if _, exists := pr.matchers[matcher.GetType()]; !exists {
		pr.order = append(pr.order, matcher.GetType())
	}
	pr.matchers[matcher.GetType()] = matcher
}

// GetMatcher returns the matcher for the given PII type.
func (pr *PatternRegistry) GetMatcher(piiType types.PIIType) PatternMatcher {
	return pr.matchers[piiType]
}

// OrderedMatchers returns the matchers in registration order.
func (pr *PatternRegistry) OrderedMatchers() []PatternMatcher {
	matchers := make([]PatternMatcher, 0, len(pr.order))
	for _, piiType := range pr.order {
		matchers = append(matchers, pr.matchers[piiType])
	}
	return matchers
}

// EmailMatcher detects email addresses.
type EmailMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func NewEmailMatcher() *EmailMatcher {
	return &EmailMatcher{
		name:    "email",
		pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	}
}

func (m *EmailMatcher) GetName() string        { return m.name }
func (m *EmailMatcher) GetType() types.PIIType { return types.PIITypeEmail }

func (m *EmailMatcher) Match(content string) []types.Match {
	return collectMatches(m.pattern, content, func(value string) (float64, bool) {
		if strings.Count(value, "@") != 1 {
			return 0, false
		}
		return 0.9, true
	})
}

func (m *EmailMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypeEmail, config)
}

// SSNMatcher detects US Social Security Numbers.
type SSNMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func NewSSNMatcher() *SSNMatcher {
	// 123-45-6789 or 123 45 6789
	return &SSNMatcher{
		name:    "ssn",
		pattern: regexp.MustCompile(`\b\d{3}[-\s]\d{2}[-\s]\d{4}\b`),
	}
}

func (m *SSNMatcher) GetName() string        { return m.name }
func (m *SSNMatcher) GetType() types.PIIType { return types.PIITypeSSN }

func (m *SSNMatcher) Match(content string) []types.Match {
	return collectMatches(m.pattern, content, func(value string) (float64, bool) {
		digits := stripSeparators(value)
		if !isValidSSN(digits) {
			return 0.3, true
		}
		return 0.9, true
	})
}

func (m *SSNMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypeSSN, config)
}

// isValidSSN applies SSA assignment rules: area not 000/666/9xx, group
// not 00, serial not 0000.
func isValidSSN(ssn string) bool {
	if len(ssn) != 9 {
		return false
	}
	area := ssn[:3]
	if area == "000" || area == "666" || area[0] == '9' {
		return false
	}
	if ssn[3:5] == "00" {
		return false
	}
	if ssn[5:] == "0000" {
		return false
	}
	return true
}

// PhoneNumberMatcher detects US phone numbers.
type PhoneNumberMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func NewPhoneNumberMatcher() *PhoneNumberMatcher {
	// 555-123-4567, 555.123.4567, (555) 123-4567, +1 555 123 4567
	return &PhoneNumberMatcher{
		name:    "phone_number",
		// The parenthesized area code alternates with a bare one so
		// the opening paren lands inside the match.
		pattern: regexp.MustCompile(`(?:\+?\b1[-.\s]?)?(?:\([0-9]{3}\)|\b[0-9]{3})[-.\s][0-9]{3}[-.\s]?[0-9]{4}\b`),
	}
}

func (m *PhoneNumberMatcher) GetName() string        { return m.name }
func (m *PhoneNumberMatcher) GetType() types.PIIType { return types.PIITypePhoneNumber }

func (m *PhoneNumberMatcher) Match(content string) []types.Match {
	return collectMatches(m.pattern, content, func(value string) (float64, bool) {
		if strings.Contains(value, "(") && strings.Contains(value, ")") {
			return 0.9, true
		}
		if strings.Contains(value, "-") || strings.Contains(value, ".") {
			return 0.8, true
		}
		return 0.7, true
	})
}

func (m *PhoneNumberMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypePhoneNumber, config)
}

// CreditCardMatcher detects credit card numbers.
type CreditCardMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func NewCreditCardMatcher() *CreditCardMatcher {
	return &CreditCardMatcher{
		name:    "credit_card",
		pattern: regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
	}
}

func (m *CreditCardMatcher) GetName() string        { return m.name }
func (m *CreditCardMatcher) GetType() types.PIIType { return types.PIITypeCreditCard }

func (m *CreditCardMatcher) Match(content string) []types.Match {
	return collectMatches(m.pattern, content, func(value string) (float64, bool) {
		digits := stripSeparators(value)
		if !luhnValid(digits) {
			return 0, false
		}
		if strings.Contains(value, "-") || strings.Contains(value, " ") {
			return 0.9, true
		}
		return 0.8, true
	})
}

func (m *CreditCardMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypeCreditCard, config)
}

// luhnValid runs the Luhn checksum over a digit string.
func luhnValid(number string) bool {
	if len(number) < 12 {
		return false
	}

	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		digit, err := strconv.Atoi(string(number[i]))
		if err != nil {
			return false
		}
		if alternate {
			digit *= 2
			if digit > 9 {
				digit = (digit % 10) + 1
			}
		}
		sum += digit
		alternate = !alternate
	}

	return sum%10 == 0
}

// IPAddressMatcher detects IPv4 addresses.
type IPAddressMatcher struct {
	name    string
	pattern *regexp.Regexp
}

func NewIPAddressMatcher() *IPAddressMatcher {
	return &IPAddressMatcher{
		name:    "ip_address",
		pattern: regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`),
	}
}

func (m *IPAddressMatcher) GetName() string        { return m.name }
func (m *IPAddressMatcher) GetType() types.PIIType { return types.PIITypeIPAddress }

func (m *IPAddressMatcher) Match(content string) []types.Match {
	return collectMatches(m.pattern, content, func(value string) (float64, bool) {
		for _, part := range strings.Split(value, ".") {
			octet, err := strconv.Atoi(part)
			if err != nil || octet > 255 {
				return 0, false
			}
		}
		return 0.8, true
	})
}

func (m *IPAddressMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypeIPAddress, config)
}

// APIKeyMatcher detects likely API keys and bearer tokens.
type APIKeyMatcher struct {
	name     string
	skKey    *regexp.Regexp
	jwtToken *regexp.Regexp
	generic  *regexp.Regexp
}

func NewAPIKeyMatcher() *APIKeyMatcher {
	return &APIKeyMatcher{
		name:     "api_key",
		skKey:    regexp.MustCompile(`\bsk-[A-Za-z0-9]{32,}\b`),
		jwtToken: regexp.MustCompile(`\beyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\b`),
		generic:  regexp.MustCompile(`\b[A-Za-z0-9_-]{40,}\b`),
	}
}

func (m *APIKeyMatcher) GetName() string        { return m.name }
func (m *APIKeyMatcher) GetType() types.PIIType { return types.PIITypeAPIKey }

func (m *APIKeyMatcher) Match(content string) []types.Match {
	var matches []types.Match
	seen := make(map[int]bool)

	for _, candidate := range []struct {
		pattern    *regexp.Regexp
		confidence float64
	}{
		{m.skKey, 0.9},
		{m.jwtToken, 0.85},
		{m.generic, 0.5},
	} {
		confidence := candidate.confidence
		for _, found := range collectMatches(candidate.pattern, content, func(string) (float64, bool) {
			return confidence, true
		}) {
			if seen[found.StartPos] {
				continue
			}
			seen[found.StartPos] = true
			matches = append(matches, found)
		}
	}

	return matches
}

func (m *APIKeyMatcher) IsEnabled(config *types.ScanConfig) bool {
	return isTypeEnabled(types.PIITypeAPIKey, config)
}

// Helper functions

// collectMatches runs the pattern over content and builds Match records.
// validate returns the confidence for a raw match and whether to keep it.
func collectMatches(pattern *regexp.Regexp, content string, validate func(string) (float64, bool)) []types.Match {
	var matches []types.Match

	indices := pattern.FindAllStringIndex(content, -1)
	for _, loc := range indices {
		value := content[loc[0]:loc[1]]
		confidence, keep := validate(value)
		if !keep {
			continue
		}

		matches = append(matches, types.Match{
			Value:      value,
			StartPos:   loc[0],
			EndPos:     loc[1],
			Context:    extractContext(content, loc[0], loc[1], 20),
			Confidence: confidence,
		})
	}

	return matches
}

func extractContext(content string, start, end, windowSize int) string {
	contextStart := start - windowSize
	if contextStart < 0 {
		contextStart = 0
	}
	contextEnd := end + windowSize
	if contextEnd > len(content) {
		contextEnd = len(content)
	}
	return content[contextStart:contextEnd]
}

func stripSeparators(value string) string {
	return strings.NewReplacer("-", "", " ", "", ".", "").Replace(value)
}

func isTypeEnabled(piiType types.PIIType, config *types.ScanConfig) bool {
	if config == nil {
		return true
	}

	for _, disabled := range config.DisabledPatterns {
		if disabled == piiType {
			return false
		}
	}

	if len(config.EnabledPatterns) == 0 {
		return true
	}

	for _, enabled := range config.EnabledPatterns {
		if enabled == piiType {
			return true
		}
	}

	return false
}
