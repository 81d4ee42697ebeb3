// Package pipeline orchestrates a full grounding run: transcript ingestion,
// per-speaker span allocation, batch validation, and report assembly. The
// algorithmic work lives in the allocate and validate packages; this layer
// only wires them together.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/allocate"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/cache"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/extract"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/llm"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/metrics"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/validate"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/worker"
)

// Pipeline runs the grounding process end to end for one document at a time.
type Pipeline struct {
	cfg      *model.Config
	loader   *Loader
	registry *extract.Registry
	logger   *zap.Logger
}

// NewPipeline creates a pipeline with the given configuration. A nil logger
// gets a no-op logger.
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		loader:   NewLoader(cfg.Ingest.MaxBytes),
		registry: extract.NewRegistry(),
		logger:   logger,
	}
}

// ProcessFile grounds one transcript file. claimsPath may be empty, in which
// case the sibling claims file is resolved by convention.
func (p *Pipeline) ProcessFile(ctx context.Context, transcriptPath, claimsPath string) (*model.GroundingReport, error) {
	content, docID, err := p.loader.Load(transcriptPath)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveClaimsPath(transcriptPath, claimsPath)
	if err != nil {
		return nil, err
	}

	set, err := extract.LoadClaimSet(resolved)
	if err != nil {
		return nil, err
	}
	for _, warning := range set.Warnings {
		p.logger.Warn("claims file warning", zap.String("detail", warning))
	}

	if set.DocumentID != "" {
		docID = set.DocumentID
	}

	report, err := p.ProcessDocument(ctx, docID, transcriptPath, content, set)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ProcessDocument grounds one already-loaded document against its claim set.
func (p *Pipeline) ProcessDocument(ctx context.Context, docID, source, content string, set *extract.ClaimSet) (*model.GroundingReport, error) {
	format := p.registry.FindFormat(source, content)
	scopes, err := format.Scopes(content, docID, p.cfg.Ingest.DefaultSpeakerRole)
	if err != nil {
		return nil, fmt.Errorf("split transcript (%s): %w", format.Name(), err)
	}
	p.logger.Info("transcript split",
		zap.String("format", format.Name()),
		zap.Int("scopes", len(scopes)))

	collector := metrics.NewCollector()
	allocator := allocate.NewAllocator(p.cfg.Allocator, collector)

	report := &model.GroundingReport{
		RunID:       uuid.NewString(),
		Source:      source,
		ProcessedAt: time.Now().UTC(),
		Evidence:    make(map[string][]model.EvidenceItem),
	}

	var inputs []model.EvidenceInput
	for _, sp := range set.Speakers {
		scope, ok := findScope(scopes, sp.SpeakerID)
		if !ok {
			p.logger.Warn("no transcript scope for speaker", zap.String("speaker", sp.SpeakerID))
			continue
		}
		if sp.SpeakerRole != "" {
			scope.SpeakerRole = sp.SpeakerRole
		}

		allocated := allocator.Allocate(scope, sp.Claims, sp.Evidence)

		itemCount := 0
		for field, items := range allocated {
			if len(items) == 0 {
				continue
			}
			report.Evidence[field] = append(report.Evidence[field], items...)
			itemCount += len(items)
			for _, item := range items {
				inputs = append(inputs, model.EvidenceInput{
					Text:              item.Quote,
					ResearcherFlagged: scope.SpeakerRole == "interviewer",
				})
			}
		}

		report.Scopes = append(report.Scopes, model.ScopeSummary{
			SpeakerID:   scope.SpeakerID,
			SpeakerRole: scope.SpeakerRole,
			DocumentID:  scope.DocumentID,
			TextBytes:   len(scope.Text),
			ClaimCount:  len(sp.Claims),
			ItemCount:   itemCount,
		})
	}

	if len(inputs) > 0 {
		engine, err := p.buildEngine(collector)
		if err != nil {
			return nil, err
		}
		report.Validation = engine.BatchValidate(ctx, inputs, content, p.cfg.Concurrency.ValidationWorkers)
	}

	report.Metrics = collector.Snapshot()
	return report, nil
}

// buildEngine assembles the validation engine with its backends, rate
// limiter, and verdict cache.
func (p *Pipeline) buildEngine(collector *metrics.Collector) (*validate.Engine, error) {
	providers, err := llm.NewProviders(p.cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("configure backends: %w", err)
	}

	opts := []validate.Option{
		validate.WithCollector(collector),
		validate.WithLogger(p.logger),
		validate.WithLimiter(worker.NewLimiter(p.cfg.Concurrency.BackendRPS, p.cfg.Concurrency.BackendBurst)),
	}

	if p.cfg.Cache.Enabled {
		if p.cfg.Cache.Dir != "" {
			opts = append(opts, validate.WithCache(
				cache.NewLayeredCache(p.cfg.Cache.MemoryTTL, p.cfg.Cache.Dir, p.cfg.Cache.DiskTTL)))
		} else {
			opts = append(opts, validate.WithCache(
				cache.NewMemoryCache(p.cfg.Cache.MemoryTTL, 10*time.Minute)))
		}
	}

	return validate.NewEngine(p.cfg.Validation, providers, opts...)
}

// findScope matches a claimed speaker to a transcript scope by ID,
// case-insensitively.
func findScope(scopes []model.ScopedText, speakerID string) (model.ScopedText, bool) {
	for _, scope := range scopes {
		if strings.EqualFold(scope.SpeakerID, speakerID) {
			return scope, true
		}
	}
	// Single-scope documents (plain text fallback) accept any speaker.
	if len(scopes) == 1 && scopes[0].SpeakerID == "speaker" {
		scope := scopes[0]
		scope.SpeakerID = speakerID
		return scope, true
	}
	return model.ScopedText{}, false
}
