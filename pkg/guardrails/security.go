package guardrails

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"regexp"
)

// injectionCheck binds a pattern to the reason reported when it matches.
type injectionCheck struct {
	pattern *regexp.Regexp
	reason  InjectionReason
}

// Checks run in order; the first hit wins.
var injectionChecks = []injectionCheck{
	{regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions?`), ReasonInstructionOverride},
	{regexp.MustCompile(`(?i)reveal\s+(password|credential|secret|token|key)`), ReasonCredentialRequest},
	{regexp.MustCompile(`(?i)(admin|root|system)\s+(password|credential|access)`), ReasonPrivilegeEscalation},
	{regexp.MustCompile(`(?i)(<script|javascript:)`), ReasonXSSAttempt},
	{regexp.MustCompile(`(?i)(union\s+select|drop\s+table|delete\s+from)`), ReasonSQLInjection},
	{regexp.MustCompile(`(?i)(tell|show)\s+me\s+(anything|everything)\s+about`), ReasonDataExfiltration},
	{regexp.MustCompile(`(?i)bypass\s+(security|policy|restriction|limit)`), ReasonSecurityBypass},
	{regexp.MustCompile(`[$%]\{[^}]*\}`), ReasonTemplateInjection},
}

var tokenPatterns = []*regexp.Regexp{
	// JWT with Bearer prefix
	regexp.MustCompile(`Bearer\s+[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
	// sk- style API keys
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{32,}\b`),
	// generic long tokens
	regexp.MustCompile(`\b[A-Za-z0-9_-]{40,}\b`),
}

// CheckPromptInjection reports whether a prompt looks like an injection
// attempt and, if so, the first matching reason.
func CheckPromptInjection(prompt string) (bool, InjectionReason) {
	for _, check := range injectionChecks {
		if check.pattern.MatchString(prompt) {
			return true, check.reason
		}
	}
	return false, ReasonSafe
}

// CheckTokenExposure scans text for authentication material that should
// never appear in logs or model output.
func CheckTokenExposure(text string) []string {
	var exposed []string
	seen := make(map[string]bool)

	for _, pattern := range tokenPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if !seen[match] {
				seen[match] = true
				exposed = append(exposed, match)
			}
		}
	}

	return exposed
}

// ValidateModelAccess reports whether modelID appears in the allowlist.
func ValidateModelAccess(modelID string, allowedModels []string) bool {
	for _, allowed := range allowedModels {
		if modelID == allowed {
			return true
		}
	}
	return false
}

// CheckDataLeakage hashes every sample and reports overlap between the
// training and test sets.
func CheckDataLeakage(trainingData, testData []string) LeakageReport {
	trainingHashes := make(map[string]bool, len(trainingData))
	for _, sample := range trainingData {
		trainingHashes[hashSample(sample)] = true
	}

	leaked := make(map[string]bool)
	for _, sample := range testData {
		h := hashSample(sample)
		if trainingHashes[h] {
			leaked[h] = true
		}
	}

	report := LeakageReport{
		HasLeakage:    len(leaked) > 0,
		LeakageCount:  len(leaked),
		TotalTraining: len(trainingData),
		TotalTest:     len(testData),
	}
	if len(testData) > 0 {
		report.LeakageRatio = float64(len(leaked)) / float64(len(testData))
	}

	return report
}

func hashSample(sample string) string {
	sum := sha256.Sum256([]byte(sample))
	return hex.EncodeToString(sum[:])
}

// ShannonEntropy computes the byte-level Shannon entropy of data in bits
// per byte (0 to 8).
func ShannonEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	entropy := 0.0
	total := float64(len(data))
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// LooksEncrypted reports whether data has the high entropy characteristic
// of ciphertext or compressed content.
func LooksEncrypted(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return ShannonEntropy(data) > 7.5
}
