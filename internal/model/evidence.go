package model

import "strings"

// Span is a half-open byte-offset interval [Start, End) into the text of one
// ScopedText. Offsets are byte offsets in the Go string sense; a valid span
// satisfies 0 <= Start < End <= len(text).
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Valid reports whether the span is a well-formed interval into text of the
// given length.
func (s Span) Valid(textLen int) bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= textLen
}

// EvidenceItem is a span promoted to a grounded quotation with speaker and
// document attribution. The quote is never paraphrased: Quote is byte-exact
// equal to the scoped text sliced at [Start, End).
type EvidenceItem struct {
	Quote       string `json:"quote" yaml:"quote"`
	Start       int    `json:"start_char" yaml:"start_char"`
	End         int    `json:"end_char" yaml:"end_char"`
	Speaker     string `json:"speaker" yaml:"speaker"`
	SpeakerRole string `json:"speaker_role,omitempty" yaml:"speaker_role,omitempty"`
	DocumentID  string `json:"document_id" yaml:"document_id"`
}

// Span returns the item's offsets as a Span.
func (e EvidenceItem) Span() Span {
	return Span{Start: e.Start, End: e.End}
}

// EvidenceInput is one quotation submitted for validation, together with the
// flags the upstream stage already knows about it.
type EvidenceInput struct {
	Text string `json:"text"`

	// ResearcherFlagged marks evidence the upstream stage already identified
	// as interviewer/researcher content; it forces maximum contamination.
	ResearcherFlagged bool `json:"researcher_flagged,omitempty"`
}

// NormalizeEvidenceText canonicalizes evidence text for use as a result key:
// surrounding whitespace is dropped, nothing else is touched.
func NormalizeEvidenceText(text string) string {
	return strings.TrimSpace(text)
}
