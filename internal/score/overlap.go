// Package score implements the lexical gates used during span allocation:
// token-overlap scoring between a claim and a candidate sentence, and the
// hygiene pre-filter that keeps metadata labels and interviewer questions out
// of the candidate pool.
package score

import (
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/span"
)

// OverlapScorer scores lexical similarity between a claim and a candidate
// sentence over sets of lowercase word tokens.
type OverlapScorer struct {
	minTokenLen     int
	minSharedTokens int
	minJaccard      float64
}

// NewOverlapScorer creates a scorer with the given allocator thresholds.
func NewOverlapScorer(cfg model.AllocatorConfig) *OverlapScorer {
	return &OverlapScorer{
		minTokenLen:     cfg.MinTokenLen,
		minSharedTokens: cfg.MinSharedTokens,
		minJaccard:      cfg.CandidateJaccard,
	}
}

// Score tokenizes both strings and computes Jaccard similarity over the token
// sets. The candidate is accepted when it shares at least minSharedTokens
// tokens with the claim, or when Jaccard clears minJaccard. The dual gate is
// deliberate: a short claim can never reach high Jaccard against a long
// sentence, while a long claim can pass on raw intersection count alone.
// Either token set being empty yields (false, 0).
func (s *OverlapScorer) Score(claim, candidate string) (bool, float64) {
	claimSet := tokenSet(claim, s.minTokenLen)
	candSet := tokenSet(candidate, s.minTokenLen)
	if len(claimSet) == 0 || len(candSet) == 0 {
		return false, 0.0
	}

	shared := 0
	for tok := range claimSet {
		if _, ok := candSet[tok]; ok {
			shared++
		}
	}

	union := len(claimSet) + len(candSet) - shared
	jaccard := float64(shared) / float64(union)

	accepted := shared >= s.minSharedTokens || jaccard >= s.minJaccard
	return accepted, jaccard
}

func tokenSet(s string, minLen int) map[string]struct{} {
	toks := span.FieldTokens(s, minLen)
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
