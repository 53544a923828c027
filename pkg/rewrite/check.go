package rewrite

import "strings"

// context window around the first occurrence of a leftover pattern
const (
	contextBefore = 40
	contextAfter  = 60
)

// Remaining reports a pattern that still occurs in the content after a
// pass was expected to remove it
type Remaining struct {
	// Pattern is the leftover pattern
	Pattern string

	// Count is the number of occurrences found
	Count int

	// Context is a snippet around the first occurrence
	Context string
}

// CountRemaining scans content for leftover patterns and reports each one
// that still occurs, with a context snippet around its first occurrence.
// Patterns that count zero are omitted: a clean scan returns nil.
func CountRemaining(content []byte, patterns []string) []Remaining {
	text := string(content)

	var found []Remaining
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		count := strings.Count(text, pattern)
		if count == 0 {
			continue
		}

		idx := strings.Index(text, pattern)
		start := idx - contextBefore
		if start < 0 {
			start = 0
		}
		end := idx + contextAfter
		if end > len(text) {
			end = len(text)
		}

		found = append(found, Remaining{
			Pattern: pattern,
			Count:   count,
			Context: text[start:end],
		})
	}
	return found
}
