package classification

// ThreatCategory represents a class of threat recognized by the classifier.
type ThreatCategory string

const (
	CategoryPhishing ThreatCategory = "phishing"
	CategoryMalware  ThreatCategory = "malware"
	CategorySpam     ThreatCategory = "spam"
	CategoryUnknown  ThreatCategory = "unknown"
)

// Classification is the result of classifying a piece of text.
type Classification struct {
	Text       string           `json:"text"`
	Labels     []ThreatCategory `json:"labels"`
	Confidence []float64        `json:"confidence"`
	IsThreat   bool             `json:"is_threat"`

	// MatchedKeywords maps each assigned label to the keywords that
	// triggered it, in list order.
	MatchedKeywords map[ThreatCategory][]string `json:"matched_keywords,omitempty"`
}

// CategoryRule binds a threat category to its keyword list and the
// confidence tier assigned when any keyword matches.
type CategoryRule struct {
	Category   ThreatCategory `json:"category"`
	Keywords   []string       `json:"keywords"`
	Confidence float64        `json:"confidence"`
}
