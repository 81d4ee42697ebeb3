package model

import "time"

// Config is the complete runtime configuration, assembled from defaults,
// config file, environment, and CLI flags (in ascending priority).
type Config struct {
	Allocator   AllocatorConfig   `json:"allocator" yaml:"allocator"`
	Validation  ValidationConfig  `json:"validation" yaml:"validation"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Ingest      IngestConfig      `json:"ingest" yaml:"ingest"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// AllocatorConfig tunes span allocation. The thresholds are inherited from
// the original heuristics and have no documented derivation; treat them as
// calibration candidates, not ground truth.
type AllocatorConfig struct {
	// MaxEvidencePerField caps accepted quotations per semantic field.
	MaxEvidencePerField int `json:"max_evidence_per_field" yaml:"max_evidence_per_field"`
	// RepresentativeField names the one field exempt from registry contention.
	RepresentativeField string `json:"representative_field" yaml:"representative_field"`
	// RepresentativeBackfill caps curated items backfilled into an empty
	// representative field.
	RepresentativeBackfill int `json:"representative_backfill" yaml:"representative_backfill"`
	// MinSentenceLen drops sentence fragments shorter than this many bytes.
	MinSentenceLen int `json:"min_sentence_len" yaml:"min_sentence_len"`
	// MinTokenLen keeps only tokens longer than this during overlap scoring
	// (suppresses stop-word noise).
	MinTokenLen int `json:"min_token_len" yaml:"min_token_len"`
	// MinSharedTokens accepts a candidate on raw intersection count alone.
	MinSharedTokens int `json:"min_shared_tokens" yaml:"min_shared_tokens"`
	// CandidateJaccard accepts a candidate on Jaccard similarity alone.
	CandidateJaccard float64 `json:"candidate_jaccard" yaml:"candidate_jaccard"`
}

// ValidationConfig tunes the four validation layers and the status boundaries.
type ValidationConfig struct {
	MinTokenOverlap     float64 `json:"min_token_overlap" yaml:"min_token_overlap"`
	MinConsensusScore   float64 `json:"min_consensus_score" yaml:"min_consensus_score"`
	UncertainFloor      float64 `json:"uncertain_floor" yaml:"uncertain_floor"`
	RefutedCeiling      float64 `json:"refuted_ceiling" yaml:"refuted_ceiling"`
	ContaminationCutoff float64 `json:"contamination_cutoff" yaml:"contamination_cutoff"`
	// MaxVerifiedContamination demotes evidence at or above this
	// contamination score out of VERIFIED (to PROBABLE at best) even when
	// it falls short of ContaminationCutoff.
	MaxVerifiedContamination float64 `json:"max_verified_contamination" yaml:"max_verified_contamination"`
	// PatternWeight is added per matched contamination pattern.
	PatternWeight float64 `json:"pattern_weight" yaml:"pattern_weight"`
	// QuestionWeight is added for a trailing question mark.
	QuestionWeight float64 `json:"question_weight" yaml:"question_weight"`
	// ContextWindow is the number of bytes of surrounding source captured
	// around each exact-match occurrence.
	ContextWindow int `json:"context_window" yaml:"context_window"`
	// RequireConsensus makes an empty backend set a construction-time error.
	RequireConsensus bool `json:"require_consensus" yaml:"require_consensus"`
	// BackendTimeout bounds each individual backend query.
	BackendTimeout time.Duration `json:"backend_timeout" yaml:"backend_timeout"`
	// BatchTimeout bounds a whole batch_validate run.
	BatchTimeout time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
}

// BackendConfig configures one semantic-match backend.
type BackendConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey   string `json:"-" yaml:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Timeout for API requests, in seconds.
	Timeout int `json:"timeout" yaml:"timeout"`
	// MaxTokens for the verdict response.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// LLMConfig configures the full set of consensus backends plus shared
// transport settings.
type LLMConfig struct {
	Backends []BackendConfig `json:"backends" yaml:"backends"`

	// Proxy settings shared by the hand-rolled HTTP providers.
	HTTPProxy  string `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy string `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
	NoProxy    string `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty"`
}

// CacheConfig configures the verdict cache.
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir,omitempty" yaml:"dir,omitempty"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds the two fan-out points.
type ConcurrencyConfig struct {
	// ValidationWorkers bounds concurrent per-item validation tasks.
	ValidationWorkers int `json:"validation_workers" yaml:"validation_workers"`
	// BatchWorkers bounds concurrent transcript files in batch mode.
	BatchWorkers int `json:"batch_workers" yaml:"batch_workers"`
	// BackendRPS / BackendBurst rate-limit queries per backend.
	BackendRPS   float64 `json:"backend_rps" yaml:"backend_rps"`
	BackendBurst int     `json:"backend_burst" yaml:"backend_burst"`
}

// IngestConfig bounds transcript loading.
type IngestConfig struct {
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
	// DefaultSpeakerRole is assigned when a transcript format carries no
	// role information.
	DefaultSpeakerRole string `json:"default_speaker_role" yaml:"default_speaker_role"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// DefaultConfig returns the built-in defaults. The numeric thresholds mirror
// the original tuning and are intentionally overridable.
func DefaultConfig() *Config {
	return &Config{
		Allocator: AllocatorConfig{
			MaxEvidencePerField:    3,
			RepresentativeField:    "representative_quotes",
			RepresentativeBackfill: 5,
			MinSentenceLen:         20,
			MinTokenLen:            3,
			MinSharedTokens:        2,
			CandidateJaccard:       0.25,
		},
		Validation: ValidationConfig{
			MinTokenOverlap:          0.70,
			MinConsensusScore:        0.66,
			UncertainFloor:           0.50,
			RefutedCeiling:           0.30,
			ContaminationCutoff:      0.70,
			MaxVerifiedContamination: 0.40,
			PatternWeight:            0.3,
			QuestionWeight:           0.4,
			ContextWindow:            100,
			RequireConsensus:         false,
			BackendTimeout:           30 * time.Second,
			BatchTimeout:             5 * time.Minute,
		},
		LLM: LLMConfig{},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ValidationWorkers: 8,
			BatchWorkers:      4,
			BackendRPS:        2.0,
			BackendBurst:      5,
		},
		Ingest: IngestConfig{
			MaxBytes:           2_000_000,
			DefaultSpeakerRole: "participant",
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
