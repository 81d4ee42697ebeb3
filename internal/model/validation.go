package model

// ValidationStatus is the terminal classification of one validation run.
// A result is never transitioned in place; re-validation produces a fresh
// ValidationResult.
type ValidationStatus string

const (
	// StatusVerified: exact or consensus semantic match with strong token overlap.
	StatusVerified ValidationStatus = "verified"
	// StatusProbable: strong token overlap without a corroborating match.
	StatusProbable ValidationStatus = "probable"
	// StatusUncertain: moderate token overlap only.
	StatusUncertain ValidationStatus = "uncertain"
	// StatusRefuted: the quotation is essentially absent from the source.
	StatusRefuted ValidationStatus = "refuted"
	// StatusInsufficient: not enough signal to classify (also the isolation
	// result for a failed or timed-out validation task).
	StatusInsufficient ValidationStatus = "insufficient"
	// StatusContaminated: the quotation looks like researcher/interviewer
	// content rather than participant testimony.
	StatusContaminated ValidationStatus = "contaminated"
)

// ValidationResult carries the outcome of validating one quotation against
// one source text. All four layer scores are retained for transparency.
type ValidationResult struct {
	Status             ValidationStatus `json:"status"`
	Confidence         float64          `json:"confidence"`
	ExactMatch         bool             `json:"exact_match"`
	TokenOverlapRatio  float64          `json:"token_overlap_ratio"`
	ConsensusScore     float64          `json:"consensus_score"`
	ContaminationScore float64          `json:"contamination_score"`
	SourceSegments     []string         `json:"source_segments,omitempty"`
	Notes              []string         `json:"notes,omitempty"`
}
