package summarizer

import (
	"math"
	"strings"
)

// DefaultMaxLength is applied when the caller passes a non-positive limit.
const DefaultMaxLength = 100

// Summary is the result of extractive summarization.
type Summary struct {
	Summary          string  `json:"summary"`
	OriginalLength   int     `json:"original_length"`
	SummaryLength    int     `json:"summary_length"`
	CompressionRatio float64 `json:"compression_ratio"`
}

// ExtractiveSummarizer produces summaries by keeping leading sentences
// verbatim. No rewriting takes place.
type ExtractiveSummarizer struct {
	name    string
	version string
}

// NewExtractiveSummarizer creates a summarizer.
func NewExtractiveSummarizer() *ExtractiveSummarizer {
	return &ExtractiveSummarizer{
		name:    "extractive_summarizer",
		version: "1.0.0",
	}
}

// GetName returns the summarizer name.
func (s *ExtractiveSummarizer) GetName() string {
	return s.name
}

// Summarize keeps the longest prefix of whole sentences (split on ". ")
// whose re-terminated total stays within maxLength. A non-positive
// maxLength falls back to DefaultMaxLength.
func (s *ExtractiveSummarizer) Summarize(text string, maxLength int) Summary {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	result := Summary{OriginalLength: len(text)}
	if len(text) == 0 {
		return result
	}

	sentences := strings.Split(text, ". ")

	var b strings.Builder
	for _, sentence := range sentences {
		candidate := sentence + ". "
		if b.Len()+len(candidate) > maxLength {
			break
		}
		b.WriteString(candidate)
	}

	accumulated := b.String()
	result.Summary = strings.TrimSpace(accumulated)
	result.SummaryLength = len(accumulated)
	result.CompressionRatio = round2(float64(result.SummaryLength) / float64(result.OriginalLength))

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
