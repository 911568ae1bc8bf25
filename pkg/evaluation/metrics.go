// Package evaluation provides offline quality metrics for classifier
// outputs and extractive summaries.
package evaluation

import (
	"fmt"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\w+`)

// ClassificationMetrics holds aggregate quality measures over label pairs.
type ClassificationMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	Accuracy  float64 `json:"accuracy"`
}

// ComputeClassificationMetrics compares predicted labels against ground
// truth. Multi-class precision/recall/F1 are support-weighted averages of
// the per-label scores; divisions by zero contribute zero.
func ComputeClassificationMetrics(yTrue, yPred []string) (*ClassificationMetrics, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("label list length mismatch: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, fmt.Errorf("no labels to evaluate")
	}

	total := len(yTrue)
	correct := 0
	support := make(map[string]int)
	truePos := make(map[string]int)
	falsePos := make(map[string]int)
	falseNeg := make(map[string]int)

	for i := range yTrue {
		support[yTrue[i]]++
		if yTrue[i] == yPred[i] {
			correct++
			truePos[yTrue[i]]++
		} else {
			falseNeg[yTrue[i]]++
			falsePos[yPred[i]]++
		}
	}

	var precision, recall, f1 float64
	for label, count := range support {
		weight := float64(count) / float64(total)

		p := safeRatio(truePos[label], truePos[label]+falsePos[label])
		r := safeRatio(truePos[label], truePos[label]+falseNeg[label])

		var labelF1 float64
		if p+r > 0 {
			labelF1 = 2 * p * r / (p + r)
		}

		precision += weight * p
		recall += weight * r
		f1 += weight * labelF1
	}

	return &ClassificationMetrics{
		Precision: precision,
		Recall:    recall,
		F1Score:   f1,
		Accuracy:  float64(correct) / float64(total),
	}, nil
}

func safeRatio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator)
}

// TokenOverlapSimilarity computes the Jaccard coefficient over the
// lowercase word sets of two texts.
func TokenOverlapSimilarity(text1, text2 string) float64 {
	set1 := tokenSet(text1)
	set2 := tokenSet(text2)

	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	intersection := 0
	for token := range set1 {
		if set2[token] {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range tokenize(text) {
		set[token] = true
	}
	return set
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// RougeScore holds precision, recall, and F1 for one ROUGE variant.
type RougeScore struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// RougeScores holds the standard trio of summary-evaluation scores.
type RougeScores struct {
	Rouge1 RougeScore `json:"rouge_1"`
	Rouge2 RougeScore `json:"rouge_2"`
	RougeL RougeScore `json:"rouge_l"`
}

// ComputeRouge evaluates a candidate summary against a reference.
func ComputeRouge(reference, candidate string) RougeScores {
	refTokens := tokenize(reference)
	candTokens := tokenize(candidate)

	return RougeScores{
		Rouge1: rougeN(refTokens, candTokens, 1),
		Rouge2: rougeN(refTokens, candTokens, 2),
		RougeL: rougeL(refTokens, candTokens),
	}
}

func rougeN(refTokens, candTokens []string, n int) RougeScore {
	refGrams := ngramCounts(refTokens, n)
	candGrams := ngramCounts(candTokens, n)

	if len(refGrams) == 0 || len(candGrams) == 0 {
		return RougeScore{}
	}

	overlap := 0
	refTotal := 0
	candTotal := 0
	for gram, count := range refGrams {
		refTotal += count
		if candCount, ok := candGrams[gram]; ok {
			if candCount < count {
				overlap += candCount
			} else {
				overlap += count
			}
		}
	}
	for _, count := range candGrams {
		candTotal += count
	}

	return scoreFromCounts(overlap, candTotal, refTotal)
}

func rougeL(refTokens, candTokens []string) RougeScore {
	if len(refTokens) == 0 || len(candTokens) == 0 {
		return RougeScore{}
	}

	lcs := lcsLength(refTokens, candTokens)
	return scoreFromCounts(lcs, len(candTokens), len(refTokens))
}

func scoreFromCounts(overlap, candTotal, refTotal int) RougeScore {
	precision := safeRatio(overlap, candTotal)
	recall := safeRatio(overlap, refTotal)

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return RougeScore{Precision: precision, Recall: recall, F1: f1}
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

func lcsLength(x, y []string) int {
	m, n := len(x), len(y)
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if x[i-1] == y[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return prev[n]
}
