package validate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/cache"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/llm"
)

const (
	answerMatch    = "match"
	answerNoMatch  = "no_match"
	answerNoAnswer = "no_answer"
)

// runConsensus dispatches one semantic-match query per configured backend and
// folds the verdicts into a consensus score. A backend that errors, times
// out, or returns an unparseable verdict is recorded as "no answer" and
// excluded from the denominator; it never fails the validation.
func (e *Engine) runConsensus(ctx context.Context, evidence, source string) consensusResult {
	result := consensusResult{
		PerBackend: make(map[string]string, len(e.providers)),
	}
	if len(e.providers) == 0 {
		return result
	}

	answers := make([]string, len(e.providers))

	var wg sync.WaitGroup
	for i, provider := range e.providers {
		wg.Add(1)
		go func(idx int, p llm.Provider) {
			defer wg.Done()
			answers[idx] = e.queryBackend(ctx, p, evidence, source)
		}(i, provider)
	}
	wg.Wait()

	for i, provider := range e.providers {
		answer := answers[i]
		result.PerBackend[provider.Name()] = answer
		switch answer {
		case answerMatch:
			result.Responded++
			result.Agreed++
		case answerNoMatch:
			result.Responded++
		}
	}

	if result.Responded > 0 {
		result.Score = float64(result.Agreed) / float64(result.Responded)
	}

	return result
}

// queryBackend runs one rate-limited, time-boxed, cached backend query.
// Every failure mode collapses to "no answer", including a panic in the
// provider itself; this runs on a consensus goroutine, so nothing above it
// could recover.
func (e *Engine) queryBackend(ctx context.Context, p llm.Provider, evidence, source string) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("backend panicked",
				zap.String("backend", p.Name()),
				zap.Any("panic", r))
			answer = answerNoAnswer
		}
	}()

	key := cache.VerdictKey(p.Name(), evidence, source)
	if e.verdicts != nil {
		if cached, found := e.verdicts.Get(key); found {
			return string(cached)
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, p.Name()); err != nil {
			return answerNoAnswer
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.BackendTimeout)
	defer cancel()

	resp, err := p.SemanticMatch(callCtx, llm.MatchRequest{
		Evidence: evidence,
		Source:   source,
	})
	if err != nil {
		e.logger.Debug("backend gave no answer",
			zap.String("backend", p.Name()),
			zap.Error(err))
		return answerNoAnswer
	}

	answer = answerNoMatch
	if resp.Match {
		answer = answerMatch
	}

	if e.verdicts != nil {
		if err := e.verdicts.Set(key, []byte(answer), 0); err != nil {
			e.logger.Debug("verdict cache write failed", zap.Error(err))
		}
	}

	return answer
}
