// Package textutil provides parsing, normalization, and fuzzy comparison
// helpers shared by the analysis packages.
package textutil

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

var (
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	jsonObjectPattern  = regexp.MustCompile(`(?s)\{.*\}`)
)

// NormalizeOptions controls text normalization behavior.
type NormalizeOptions struct {
	Lowercase         bool
	RemovePunctuation bool
}

// DefaultNormalizeOptions lowercases but keeps punctuation.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{Lowercase: true}
}

// NormalizeText normalizes text for comparison. Whitespace runs are
// always collapsed to a single space and the result is trimmed.
func NormalizeText(text string, opts NormalizeOptions) string {
	if opts.Lowercase {
		text = strings.ToLower(text)
	}
	if opts.RemovePunctuation {
		text = punctuationPattern.ReplaceAllString(text, " ")
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

// TruncateText truncates text to maxLength, appending suffix when
// truncation occurs. The result never exceeds maxLength.
func TruncateText(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	cut := maxLength - len(suffix)
	if cut < 0 {
		cut = 0
	}
	return text[:cut] + suffix
}

// Similarity computes a similarity ratio between two strings as
// 2*M/T, where M is the total length of matched blocks and T is the
// combined length of both strings. Returns a value in [0, 1].
func Similarity(str1, str2 string) float64 {
	total := len(str1) + len(str2)
	if total == 0 {
		return 1.0
	}
	matches := matchedLength([]byte(str1), []byte(str2))
	return 2.0 * float64(matches) / float64(total)
}

// FuzzyMatch reports whether two strings are similar at or above the
// given threshold.
func FuzzyMatch(str1, str2 string, threshold float64) bool {
	return Similarity(str1, str2) >= threshold
}

// matchedLength sums matching block lengths by recursively finding the
// longest common substring and matching the regions on either side.
func matchedLength(a, b []byte) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	matched := size
	matched += matchedLength(a[:aStart], b[:bStart])
	matched += matchedLength(a[aStart+size:], b[bStart+size:])
	return matched
}

func longestCommonSubstring(a, b []byte) (aStart, bStart, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					aStart = i - size
					bStart = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return aStart, bStart, size
}

// ParseJSONSafe parses JSON into a generic map, returning nil on error.
func ParseJSONSafe(text string) map[string]interface{} {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil
	}
	return out
}

// ExtractJSON pulls the first JSON object out of text that may contain
// surrounding prose. Returns nil when no valid object is found.
func ExtractJSON(text string) map[string]interface{} {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return nil
	}
	return ParseJSONSafe(match)
}

// FlattenMap flattens a nested map into dot-separated keys.
func FlattenMap(nested map[string]interface{}, parentKey, sep string) map[string]interface{} {
	flat := make(map[string]interface{})
	for key, value := range nested {
		newKey := key
		if parentKey != "" {
			newKey = parentKey + sep + key
		}
		if child, ok := value.(map[string]interface{}); ok {
			for k, v := range FlattenMap(child, newKey, sep) {
				flat[k] = v
			}
		} else {
			flat[newKey] = value
		}
	}
	return flat
}

// MapDiff summarizes the differences between two flattened maps.
type MapDiff struct {
	Added          map[string]interface{} `json:"added"`
	Removed        map[string]interface{} `json:"removed"`
	Modified       map[string]ValueChange `json:"modified"`
	UnchangedCount int                    `json:"unchanged_count"`
}

// ValueChange holds the before and after values of a modified key.
type ValueChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// CompareMaps flattens both maps and reports added, removed, and
// modified keys.
func CompareMaps(map1, map2 map[string]interface{}) MapDiff {
	flat1 := FlattenMap(map1, "", ".")
	flat2 := FlattenMap(map2, "", ".")

	diff := MapDiff{
		Added:    make(map[string]interface{}),
		Removed:  make(map[string]interface{}),
		Modified: make(map[string]ValueChange),
	}

	for key, newVal := range flat2 {
		oldVal, exists := flat1[key]
		if !exists {
			diff.Added[key] = newVal
		} else if oldVal != newVal {
			diff.Modified[key] = ValueChange{Old: oldVal, New: newVal}
		} else {
			diff.UnchangedCount++
		}
	}
	for key, oldVal := range flat1 {
		if _, exists := flat2[key]; !exists {
			diff.Removed[key] = oldVal
		}
	}
	return diff
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.000000Z",
	time.RFC3339,
}

// ParseTimestamp parses a timestamp string against a fixed set of
// layouts, returning the zero time and false when none match.
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Batch splits items into consecutive slices of at most size elements.
// A non-positive size returns a single batch with all items.
func Batch[T any](items []T, size int) [][]T {
	if size <= 0 {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
