package classification

import (
	"context"
	"strings"
)

// Confidence assigned when no category matches.
const unknownConfidence = 0.3

// ThreatClassifier assigns threat categories to free text by matching
// fixed keyword lists. Rules are evaluated in order and every matching
// category contributes a label; confidence is a fixed tier per category.
type ThreatClassifier struct {
	name    string
	version string
	rules   []CategoryRule
}

// NewThreatClassifier creates a classifier with the built-in category rules.
func NewThreatClassifier() *ThreatClassifier {
	return &ThreatClassifier{
		name:    "keyword_threat_classifier",
		version: "1.0.0",
		rules: []CategoryRule{
			{
				Category:   CategoryPhishing,
				Keywords:   []string{"click here", "claim prize", "urgent", "verify account"},
				Confidence: 0.92,
			},
			{
				Category:   CategoryMalware,
				Keywords:   []string{"download", "attachment", "install", "exe"},
				Confidence: 0.88,
			},
			{
				Category:   CategorySpam,
				Keywords:   []string{"buy now", "limited offer", "act fast"},
				Confidence: 0.75,
			},
		},
	}
}

// GetName returns the classifier name.
func (c *ThreatClassifier) GetName() string {
	return c.name
}

// GetVersion returns the classifier version.
func (c *ThreatClassifier) GetVersion() string {
	return c.version
}

// Rules returns a copy of the active category rules.
func (c *ThreatClassifier) Rules() []CategoryRule {
	rules := make([]CategoryRule, len(c.rules))
	copy(rules, c.rules)
	return rules
}

// Classify scans text against every category's keyword list. Matching is
// case-insensitive substring containment. Text with no matches is labeled
// unknown with low confidence and is not a threat.
func (c *ThreatClassifier) Classify(ctx context.Context, text string) Classification {
	lower := strings.ToLower(text)

	result := Classification{
		Text:            text,
		Labels:          []ThreatCategory{},
		Confidence:      []float64{},
		MatchedKeywords: make(map[ThreatCategory][]string),
	}

	for _, rule := range c.rules {
		var matched []string
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				matched = append(matched, keyword)
			}
		}
		if len(matched) > 0 {
			result.Labels = append(result.Labels, rule.Category)
			result.Confidence = append(result.Confidence, rule.Confidence)
			result.MatchedKeywords[rule.Category] = matched
		}
	}

	result.IsThreat = len(result.Labels) > 0
	if !result.IsThreat {
		result.Labels = []ThreatCategory{CategoryUnknown}
		result.Confidence = []float64{unknownConfidence}
	}

	return result
}
