package validate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// BatchValidate validates many evidence items against one source text
// concurrently, bounded by workers. Each item is fully isolated: a panic,
// timeout, or cancellation in one task yields an INSUFFICIENT result for
// that item only and never aborts its siblings. Results are keyed by
// normalized evidence text; duplicate texts are validated once.
func (e *Engine) BatchValidate(ctx context.Context, inputs []model.EvidenceInput, source string, workers int) map[string]model.ValidationResult {
	results := make(map[string]model.ValidationResult, len(inputs))
	if len(inputs) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 8
	}

	if e.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.BatchTimeout)
		defer cancel()
	}

	// Dedupe up front so concurrent tasks never write the same key.
	seen := make(map[string]bool, len(inputs))
	var unique []model.EvidenceInput
	for _, input := range inputs {
		key := model.NormalizeEvidenceText(input.Text)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, input)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for _, input := range unique {
		wg.Add(1)
		go func(in model.EvidenceInput) {
			defer wg.Done()

			key := model.NormalizeEvidenceText(in.Text)

			select {
			case <-ctx.Done():
				mu.Lock()
				results[key] = insufficientResult("validation cancelled: " + ctx.Err().Error())
				mu.Unlock()
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result := e.validateIsolated(ctx, in, source)

			mu.Lock()
			results[key] = result
			mu.Unlock()
		}(input)
	}

	wg.Wait()
	return results
}

// validateIsolated wraps one validation task in a panic boundary. A defect in
// a single item must degrade to INSUFFICIENT, not take down the batch.
func (e *Engine) validateIsolated(ctx context.Context, input model.EvidenceInput, source string) (result model.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("validation task panicked", zap.Any("panic", r))
			result = insufficientResult(fmt.Sprintf("validation task failed: %v", r))
			e.collector.StatusRecorded(result.Status)
		}
	}()

	return e.ValidateEvidence(ctx, input, source)
}

func insufficientResult(note string) model.ValidationResult {
	return model.ValidationResult{
		Status: model.StatusInsufficient,
		Notes:  []string{note},
	}
}
