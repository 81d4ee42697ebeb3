package score

import "strings"

// metadataLabels is the vocabulary of labels that mark a sentence as
// transcript metadata rather than testimony ("Role: Designer", "Age: 34").
var metadataLabels = map[string]struct{}{
	"role":       {},
	"category":   {},
	"age":        {},
	"gender":     {},
	"location":   {},
	"department": {},
	"occupation": {},
	"title":      {},
	"name":       {},
	"speaker":    {},
	"date":       {},
	"session":    {},
	"interview":  {},
	"project":    {},
	"team":       {},
}

// HygieneFilter rejects candidate sentences that look like metadata labels or
// interviewer-style questions. It is a cheap, order-independent pre-filter
// applied before ranking.
type HygieneFilter struct {
	labels map[string]struct{}
}

// NewHygieneFilter creates a filter with the built-in label vocabulary.
func NewHygieneFilter() *HygieneFilter {
	return &HygieneFilter{labels: metadataLabels}
}

// IsRejected reports whether the sentence must be excluded from the candidate
// pool: either a known metadata label precedes a colon, or the sentence ends
// with a question mark (an interviewer question must never become interviewee
// evidence).
func (f *HygieneFilter) IsRejected(sentence string) bool {
	trimmed := strings.TrimSpace(sentence)
	if trimmed == "" {
		return true
	}

	if strings.HasSuffix(trimmed, "?") {
		return true
	}

	if idx := strings.Index(trimmed, ":"); idx >= 0 {
		prefix := strings.ToLower(strings.TrimSpace(trimmed[:idx]))
		if _, ok := f.labels[prefix]; ok {
			return true
		}
	}

	return false
}
