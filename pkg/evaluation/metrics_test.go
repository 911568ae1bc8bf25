package evaluation

import (
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeClassificationMetrics_Perfect(t *testing.T) {
	metrics, err := ComputeClassificationMetrics(
		[]string{"phishing", "spam", "phishing"},
		[]string{"phishing", "spam", "phishing"},
	)
	if err != nil {
		t.Fatalf("ComputeClassificationMetrics failed: %v", err)
	}

	if !near(metrics.Accuracy, 1.0) || !near(metrics.Precision, 1.0) ||
		!near(metrics.Recall, 1.0) || !near(metrics.F1Score, 1.0) {
		t.Errorf("Perfect predictions should score 1.0 across the board: %+v", metrics)
	}
}

func TestComputeClassificationMetrics_Mixed(t *testing.T) {
	metrics, err := ComputeClassificationMetrics(
		[]string{"a", "a", "b", "b"},
		[]string{"a", "b", "b", "b"},
	)
	if err != nil {
		t.Fatalf("ComputeClassificationMetrics failed: %v", err)
	}

	if !near(metrics.Accuracy, 0.75) {
		t.Errorf("Expected accuracy 0.75, got %v", metrics.Accuracy)
	}
	// Weighted: a has p=1, r=0.5; b has p=2/3, r=1. Equal support.
	if !near(metrics.Precision, (1.0+2.0/3.0)/2) {
		t.Errorf("Unexpected precision %v", metrics.Precision)
	}
	if !near(metrics.Recall, 0.75) {
		t.Errorf("Unexpected recall %v", metrics.Recall)
	}
	if metrics.F1Score <= 0 || metrics.F1Score >= 1 {
		t.Errorf("F1 out of expected range: %v", metrics.F1Score)
	}
}

func TestComputeClassificationMetrics_AllWrong(t *testing.T) {
	metrics, err := ComputeClassificationMetrics(
		[]string{"a", "a"},
		[]string{"b", "b"},
	)
	if err != nil {
		t.Fatalf("ComputeClassificationMetrics failed: %v", err)
	}
	if metrics.Accuracy != 0 || metrics.Precision != 0 || metrics.Recall != 0 {
		t.Errorf("All-wrong predictions should score 0: %+v", metrics)
	}
}

func TestComputeClassificationMetrics_Errors(t *testing.T) {
	if _, err := ComputeClassificationMetrics([]string{"a"}, []string{"a", "b"}); err == nil {
		t.Error("Length mismatch should error")
	}
	if _, err := ComputeClassificationMetrics(nil, nil); err == nil {
		t.Error("Empty input should error")
	}
}

func TestTokenOverlapSimilarity(t *testing.T) {
	similarity := TokenOverlapSimilarity("the quick brown fox", "the quick red fox")
	if !near(similarity, 0.6) {
		t.Errorf("Expected Jaccard 0.6, got %v", similarity)
	}

	if s := TokenOverlapSimilarity("same words", "same words"); !near(s, 1.0) {
		t.Errorf("Identical texts should score 1, got %v", s)
	}
	if s := TokenOverlapSimilarity("alpha beta", "gamma delta"); s != 0 {
		t.Errorf("Disjoint texts should score 0, got %v", s)
	}
	if s := TokenOverlapSimilarity("", "words"); s != 0 {
		t.Errorf("Empty text should score 0, got %v", s)
	}
}

func TestTokenOverlapSimilarity_CaseInsensitive(t *testing.T) {
	if s := TokenOverlapSimilarity("Alert HIGH", "alert high"); !near(s, 1.0) {
		t.Errorf("Comparison should be case-insensitive, got %v", s)
	}
}

func TestComputeRouge_Identical(t *testing.T) {
	scores := ComputeRouge("the attack was contained quickly", "the attack was contained quickly")

	if !near(scores.Rouge1.F1, 1.0) {
		t.Errorf("ROUGE-1 F1 should be 1, got %v", scores.Rouge1.F1)
	}
	if !near(scores.Rouge2.F1, 1.0) {
		t.Errorf("ROUGE-2 F1 should be 1, got %v", scores.Rouge2.F1)
	}
	if !near(scores.RougeL.F1, 1.0) {
		t.Errorf("ROUGE-L F1 should be 1, got %v", scores.RougeL.F1)
	}
}

func TestComputeRouge_Subsequence(t *testing.T) {
	scores := ComputeRouge("alpha beta gamma delta", "alpha gamma delta")

	if !near(scores.RougeL.Precision, 1.0) {
		t.Errorf("Candidate is a subsequence; precision should be 1, got %v", scores.RougeL.Precision)
	}
	if !near(scores.RougeL.Recall, 0.75) {
		t.Errorf("Expected recall 0.75, got %v", scores.RougeL.Recall)
	}
}

func TestComputeRouge_Disjoint(t *testing.T) {
	scores := ComputeRouge("one two three", "four five six")

	if scores.Rouge1.F1 != 0 || scores.RougeL.F1 != 0 {
		t.Errorf("Disjoint texts should score 0: %+v", scores)
	}
}

func TestComputeRouge_Empty(t *testing.T) {
	scores := ComputeRouge("", "summary text")
	if scores.Rouge1.F1 != 0 || scores.RougeL.F1 != 0 {
		t.Errorf("Empty reference should score 0: %+v", scores)
	}
}
