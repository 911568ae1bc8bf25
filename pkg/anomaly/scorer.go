package anomaly

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultThreshold is the |z| cutoff applied when the caller does not
// supply one. At 2.0 roughly the top 5% of a normal population is flagged.
const DefaultThreshold = 2.0

// ErrInvalidThreshold is returned when the caller supplies a threshold <= 0.
// A non-positive threshold would flag every observation, so it is treated
// as a contract violation rather than silently coerced.
var ErrInvalidThreshold = errors.New("anomaly: threshold must be positive")

// ScoreResult contains the outcome of a single scoring pass.
type ScoreResult struct {
	// Indices of anomalous observations, ascending. Empty (never nil)
	// when nothing is flagged.
	Indices []int `json:"indices"`

	// ZScores holds the z-score for every observation, by position.
	// Empty for degenerate input (fewer than 2 observations).
	ZScores []float64 `json:"z_scores"`

	// Mean is the sample mean of the observations.
	Mean float64 `json:"mean"`

	// StdDev is the population standard deviation (divide by count,
	// not count-1).
	StdDev float64 `json:"std_dev"`

	// Threshold is the |z| cutoff that was applied.
	Threshold float64 `json:"threshold"`
}

// IsAnomalous reports whether the observation at index i was flagged.
func (r *ScoreResult) IsAnomalous(i int) bool {
	// Indices is sorted ascending.
	pos := sort.SearchInts(r.Indices, i)
	return pos < len(r.Indices) && r.Indices[pos] == i
}

// Score computes a z-score for each observation and flags those whose
// absolute z-score exceeds threshold.
//
// The computation is a pure, single pass over the input: mean first, then
// population standard deviation, then one classification sweep. The input
// slice is never mutated.
//
// Two degenerate inputs are defined edge cases, not errors: fewer than two
// observations (standard deviation undefined) and zero variance (all
// observations identical). Both return a result with no flagged indices.
func Score(observations []float64, threshold float64) (*ScoreResult, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}

	result := &ScoreResult{
		Indices:   []int{},
		ZScores:   []float64{},
		Threshold: threshold,
	}

	n := len(observations)
	if n < 2 {
		// A single point or empty population cannot be distinguished
		// statistically from itself.
		return result, nil
	}

	var sum float64
	for _, x := range observations {
		sum += x
	}
	mean := sum / float64(n)

	var sqDiff float64
	for _, x := range observations {
		d := x - mean
		sqDiff += d * d
	}
	stdDev := math.Sqrt(sqDiff / float64(n))

	result.Mean = mean
	result.StdDev = stdDev

	if stdDev == 0 {
		// Identical observations: every z-score is zero.
		result.ZScores = make([]float64, n)
		return result, nil
	}

	result.ZScores = make([]float64, n)
	for i, x := range observations {
		z := (x - mean) / stdDev
		result.ZScores[i] = z
		if math.Abs(z) > threshold {
			result.Indices = append(result.Indices, i)
		}
	}

	return result, nil
}

// ScoreDefault scores observations with DefaultThreshold.
func ScoreDefault(observations []float64) (*ScoreResult, error) {
	return Score(observations, DefaultThreshold)
}
