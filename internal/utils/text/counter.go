// Package text provides utilities for text processing and analysis.
// Lengths throughout the aggregator are measured in Unicode characters (runes),
// never bytes, so multi-byte titles and summaries are counted and cut consistently.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
//
// Examples:
//
//	CountRunes("hello")     // returns 5
//	CountRunes("こんにちは") // returns 5
//	CountRunes("")          // returns 0
func CountRunes(text string) int {
	return len([]rune(text))
}

// Truncate returns the first limit characters of text.
// The cut is a plain character slice: no word-boundary search, no ellipsis, no trimming.
// A non-positive limit yields the empty string.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	// fast path: byte length bounds rune length
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
