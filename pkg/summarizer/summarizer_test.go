package summarizer

import (
	"strings"
	"testing"
)

func TestSummarize_ThreatReport(t *testing.T) {
	s := NewExtractiveSummarizer()

	report := "A critical phishing attack was detected targeting enterprise users. " +
		"The attack used sophisticated social engineering techniques. " +
		"Multiple employees reported suspicious emails. " +
		"The security team has implemented additional safeguards."

	result := s.Summarize(report, 100)

	if result.SummaryLength > 100 {
		t.Errorf("Summary length %d exceeds limit", result.SummaryLength)
	}
	if result.SummaryLength >= result.OriginalLength {
		t.Error("Summary should be shorter than the original")
	}
	if result.CompressionRatio >= 1.0 {
		t.Errorf("Compression ratio should be below 1, got %v", result.CompressionRatio)
	}
	if !strings.Contains(strings.ToLower(result.Summary), "phishing") {
		t.Errorf("Leading sentence should survive: %s", result.Summary)
	}
}

func TestSummarize_WholeSentencesOnly(t *testing.T) {
	s := NewExtractiveSummarizer()

	text := "Alpha alert. Beta detail. Gamma tail ends"

	result := s.Summarize(text, 30)

	if result.Summary != "Alpha alert. Beta detail." {
		t.Errorf("Expected first two sentences, got %q", result.Summary)
	}
	if result.SummaryLength != 26 {
		t.Errorf("Expected accumulated length 26, got %d", result.SummaryLength)
	}
}

func TestSummarize_FirstSentenceTooLong(t *testing.T) {
	s := NewExtractiveSummarizer()

	result := s.Summarize("This opening sentence is far too long to fit. Short tail.", 10)

	if result.Summary != "" {
		t.Errorf("Nothing should fit, got %q", result.Summary)
	}
	if result.SummaryLength != 0 {
		t.Errorf("Expected zero summary length, got %d", result.SummaryLength)
	}
	if result.CompressionRatio != 0 {
		t.Errorf("Expected zero ratio, got %v", result.CompressionRatio)
	}
}

func TestSummarize_EverythingFits(t *testing.T) {
	s := NewExtractiveSummarizer()

	result := s.Summarize("Tiny note", 100)

	if result.Summary != "Tiny note." {
		t.Errorf("Expected full text re-terminated, got %q", result.Summary)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	s := NewExtractiveSummarizer()

	result := s.Summarize("", 100)

	if result.Summary != "" || result.SummaryLength != 0 {
		t.Errorf("Empty input should produce empty summary: %+v", result)
	}
	if result.CompressionRatio != 0 {
		t.Errorf("Empty input ratio should be 0, got %v", result.CompressionRatio)
	}
}

func TestSummarize_DefaultLimit(t *testing.T) {
	s := NewExtractiveSummarizer()

	text := strings.Repeat("Word word word. ", 20)
	result := s.Summarize(text, 0)

	if result.SummaryLength > DefaultMaxLength {
		t.Errorf("Default limit not applied: %d", result.SummaryLength)
	}
	if result.Summary == "" {
		t.Error("Expected a non-empty summary under the default limit")
	}
}

func TestSummarize_RatioRounding(t *testing.T) {
	s := NewExtractiveSummarizer()

	// 13 of 37 characters kept: 0.35135... rounds to 0.35.
	result := s.Summarize("Alpha alert. Beta detail. Gamma tail.", 15)

	if result.Summary != "Alpha alert." {
		t.Errorf("Expected first sentence only, got %q", result.Summary)
	}
	if result.CompressionRatio != 0.35 {
		t.Errorf("Expected ratio 0.35, got %v", result.CompressionRatio)
	}
}
