package model

import "time"

// GroundingReport is the complete output of one processing run: per-field
// evidence, per-quotation validation, and run metrics. Reports are
// regenerated whole on the next run, never patched.
type GroundingReport struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"` // Transcript path or identifier
	ProcessedAt time.Time `json:"processed_at"`

	// Scopes lists the speaker scopes that were processed.
	Scopes []ScopeSummary `json:"scopes"`

	// Evidence maps field name to the accepted evidence items, over all scopes.
	Evidence map[string][]EvidenceItem `json:"evidence"`

	// Validation maps normalized evidence text to its validation result.
	Validation map[string]ValidationResult `json:"validation,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// ScopeSummary records what one speaker scope contributed to the report.
type ScopeSummary struct {
	SpeakerID   string `json:"speaker_id"`
	SpeakerRole string `json:"speaker_role,omitempty"`
	DocumentID  string `json:"document_id"`
	TextBytes   int    `json:"text_bytes"`
	ClaimCount  int    `json:"claim_count"`
	ItemCount   int    `json:"item_count"`
}
