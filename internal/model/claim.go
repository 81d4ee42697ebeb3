package model

// Claim represents a single asserted attribute about a speaker, produced by
// the upstream extraction stage (typically an LLM persona extractor).
type Claim struct {
	FieldName string `json:"field_name" yaml:"field_name"` // Semantic field (e.g., "demographics")
	Value     string `json:"value" yaml:"value"`           // Natural-language assertion
}

// ScopedText is the portion of a document attributable to one speaker. It is
// the search universe for that speaker's evidence: every Span produced for
// this scope indexes into Text and nothing else.
type ScopedText struct {
	Text        string `json:"text"`
	SpeakerID   string `json:"speaker_id"`
	SpeakerRole string `json:"speaker_role,omitempty"` // e.g., "participant", "interviewer"
	DocumentID  string `json:"document_id"`
}

// IsEmpty reports whether the scope carries no searchable text.
func (s ScopedText) IsEmpty() bool {
	return len(s.Text) == 0
}
