package validate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/cache"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/llm"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/metrics"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/worker"
)

// Engine validates quotations against their claimed source text. It holds no
// mutable state across validation calls; each call computes its four layers
// on its own inputs and produces an independent, terminal result.
type Engine struct {
	cfg       model.ValidationConfig
	providers []llm.Provider
	limiter   *worker.Limiter
	verdicts  cache.Cache
	collector *metrics.Collector
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache injects a verdict cache. Passed in explicitly so tests can use a
// fresh cache per run; there is no package-level cache.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) { e.verdicts = c }
}

// WithLimiter injects a per-backend rate limiter.
func WithLimiter(l *worker.Limiter) Option {
	return func(e *Engine) { e.limiter = l }
}

// WithCollector injects a shared metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) { e.collector = c }
}

// WithLogger injects a logger; the default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a validation engine. The only construction-time error is
// misconfiguration: consensus marked mandatory with no backends configured.
func NewEngine(cfg model.ValidationConfig, providers []llm.Provider, opts ...Option) (*Engine, error) {
	if cfg.RequireConsensus && len(providers) == 0 {
		return nil, fmt.Errorf("consensus is required but no backends are configured")
	}

	e := &Engine{
		cfg:       cfg,
		providers: providers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.collector == nil {
		e.collector = metrics.NewCollector()
	}
	return e, nil
}

// ValidateEvidence checks one quotation against the full source text. It
// never returns an error: degenerate input yields an INSUFFICIENT result
// with a human-readable note.
func (e *Engine) ValidateEvidence(ctx context.Context, input model.EvidenceInput, source string) model.ValidationResult {
	evidence := model.NormalizeEvidenceText(input.Text)
	if evidence == "" || source == "" {
		result := model.ValidationResult{
			Status: model.StatusInsufficient,
			Notes:  []string{"empty evidence or source text"},
		}
		e.collector.StatusRecorded(result.Status)
		return result
	}

	exact := checkExactMatch(evidence, source, e.cfg.ContextWindow)
	overlap := checkTokenOverlap(evidence, source)
	contam := checkContamination(evidence, input.ResearcherFlagged, e.cfg.PatternWeight, e.cfg.QuestionWeight)
	consensus := e.runConsensus(ctx, evidence, source)

	result := combineLayers(exact, overlap, contam, consensus, e.cfg)
	result.Notes = buildNotes(contam, consensus, len(e.providers))

	e.collector.StatusRecorded(result.Status)
	e.logger.Debug("evidence validated",
		zap.String("status", string(result.Status)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("token_overlap", result.TokenOverlapRatio),
		zap.Float64("consensus", result.ConsensusScore),
		zap.Float64("contamination", result.ContaminationScore))

	return result
}

// buildNotes summarizes the non-numeric context a reader needs to interpret
// the result.
func buildNotes(contam contaminationResult, consensus consensusResult, configured int) []string {
	var notes []string

	if len(contam.Patterns) > 0 {
		notes = append(notes, "contamination patterns: "+strings.Join(contam.Patterns, ", "))
	}

	switch {
	case configured == 0:
		notes = append(notes, "no consensus backends configured")
	case consensus.Responded == 0:
		notes = append(notes, "no consensus backends responded")
	case consensus.Responded < configured:
		notes = append(notes, fmt.Sprintf("%d of %d backends responded", consensus.Responded, configured))
	}

	return notes
}
