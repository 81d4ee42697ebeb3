package model

// Metrics aggregates allocation and validation statistics for one processing
// run. Counters accumulate during the run; the derived ratios are computed
// once at the end and the struct is read-only thereafter.
type Metrics struct {
	CheckedSentences   int `json:"checked_sentences"`
	RejectedLowOverlap int `json:"rejected_low_overlap"`
	RejectedCollision  int `json:"rejected_collision"`
	AcceptedItems      int `json:"accepted_items"`

	// OffsetCompleteness is the fraction of accepted items carrying valid
	// offsets into their scope (1.0 unless a builder defect slipped through).
	OffsetCompleteness float64 `json:"offset_completeness"`
	// CrossFieldDuplicateRatio is the fraction of accepted items whose span
	// collides with an item from another non-exempt field (0.0 by invariant).
	CrossFieldDuplicateRatio float64 `json:"cross_field_duplicate_ratio"`
	// RejectionRateOverlap is rejected_low_overlap / checked_sentences.
	RejectionRateOverlap float64 `json:"rejection_rate_overlap"`

	// StatusCounts tallies validation outcomes per status for batch runs.
	StatusCounts map[ValidationStatus]int `json:"status_counts,omitempty"`
}
