// Package validate implements the multi-layer quotation validator: four
// independently computed scoring layers (exact match, token overlap,
// contamination, backend consensus) combined by one pure function into a
// terminal validation status.
package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// exactMatchResult is the outcome of the exact-containment layer.
type exactMatchResult struct {
	Matched  bool
	Segments []string // ±context windows around each occurrence
}

// overlapResult is the outcome of the sliding-window token-overlap layer.
type overlapResult struct {
	// Ratio is |evidence ∩ source| / |evidence| over token sets.
	Ratio float64
	// BestWindowScore is the highest Jaccard over all source windows.
	BestWindowScore float64
	// BestWindow is the text of the best-scoring window.
	BestWindow string
}

// contaminationResult is the outcome of the contamination layer.
type contaminationResult struct {
	Score    float64
	Patterns []string // names of matched patterns, for notes
}

// consensusResult is the outcome of the backend-consensus layer.
type consensusResult struct {
	Score     float64
	Agreed    int
	Responded int
	// PerBackend records each backend's answer: "match", "no_match", or
	// "no_answer" for errors and timeouts.
	PerBackend map[string]string
}

// maxExactSegments caps how many context windows one result carries.
const maxExactSegments = 5

// normalizeText lowercases, strips punctuation, and collapses whitespace so
// containment checks tolerate superficial formatting differences.
func normalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// checkExactMatch tests normalized substring containment and extracts a
// context window of contextBytes on each side of every occurrence.
func checkExactMatch(evidence, source string, contextBytes int) exactMatchResult {
	normEvidence := normalizeText(evidence)
	normSource := normalizeText(source)
	if normEvidence == "" || normSource == "" {
		return exactMatchResult{}
	}

	var segments []string
	offset := 0
	for len(segments) < maxExactSegments {
		idx := strings.Index(normSource[offset:], normEvidence)
		if idx < 0 {
			break
		}
		idx += offset

		start := idx - contextBytes
		if start < 0 {
			start = 0
		}
		end := idx + len(normEvidence) + contextBytes
		if end > len(normSource) {
			end = len(normSource)
		}
		segments = append(segments, normSource[start:end])

		offset = idx + len(normEvidence)
	}

	return exactMatchResult{
		Matched:  len(segments) > 0,
		Segments: segments,
	}
}

// checkTokenOverlap slides a window of twice the evidence token count over
// the source word sequence, retaining the best Jaccard window, and computes
// the simple overlap ratio |evidence ∩ source| / |evidence|.
func checkTokenOverlap(evidence, source string) overlapResult {
	evTokens := strings.Fields(normalizeText(evidence))
	srcTokens := strings.Fields(normalizeText(source))
	if len(evTokens) == 0 || len(srcTokens) == 0 {
		return overlapResult{}
	}

	evSet := make(map[string]struct{}, len(evTokens))
	for _, t := range evTokens {
		evSet[t] = struct{}{}
	}

	srcSet := make(map[string]struct{}, len(srcTokens))
	for _, t := range srcTokens {
		srcSet[t] = struct{}{}
	}

	shared := 0
	for t := range evSet {
		if _, ok := srcSet[t]; ok {
			shared++
		}
	}
	ratio := float64(shared) / float64(len(evSet))

	windowSize := 2 * len(evTokens)
	if windowSize > len(srcTokens) {
		windowSize = len(srcTokens)
	}

	best := overlapResult{Ratio: ratio}
	for start := 0; start+windowSize <= len(srcTokens); start++ {
		window := srcTokens[start : start+windowSize]
		score := jaccard(evSet, window)
		if score > best.BestWindowScore {
			best.BestWindowScore = score
			best.BestWindow = strings.Join(window, " ")
		}
	}

	return best
}

// jaccard computes |a ∩ b| / |a ∪ b| between a token set and a token window.
func jaccard(a map[string]struct{}, window []string) float64 {
	b := make(map[string]struct{}, len(window))
	for _, t := range window {
		b[t] = struct{}{}
	}

	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}

	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// contaminationPattern is one named heuristic for researcher content.
type contaminationPattern struct {
	name string
	re   *regexp.Regexp
}

var contaminationPatterns = []contaminationPattern{
	{
		name: "interviewer_label",
		re:   regexp.MustCompile(`(?i)^\s*(interviewer|researcher|moderator|facilitator|q\d*)\s*[:\-]`),
	},
	{
		name: "probing_opener",
		re:   regexp.MustCompile(`(?i)^\s*(can you|could you|would you|tell me|tell us|walk me through|describe|what do you|what are your|how do you|how would you|why did you|have you ever|did you)`),
	},
	{
		name: "followup_opener",
		re:   regexp.MustCompile(`(?i)^\s*(that's interesting|thanks for sharing|let's move on|moving on|next question|to follow up)`),
	},
}

// rhetoricalAllowList covers self-directed questions that genuinely occur in
// participant testimony and must not count as interviewer contamination.
var rhetoricalAllowList = []string{
	"i wonder",
	"why do i",
	"how can i",
	"what if i",
}

// checkContamination scores how much the evidence looks like researcher
// content: patternWeight per matched pattern, questionWeight for a trailing
// question mark outside the rhetorical allow-list, capped at 1.0. Evidence
// already flagged upstream as researcher content scores 1.0 outright.
func checkContamination(evidence string, researcherFlagged bool, patternWeight, questionWeight float64) contaminationResult {
	if researcherFlagged {
		return contaminationResult{Score: 1.0, Patterns: []string{"researcher_flagged"}}
	}

	trimmed := strings.TrimSpace(evidence)
	if trimmed == "" {
		return contaminationResult{}
	}

	var result contaminationResult
	for _, p := range contaminationPatterns {
		if p.re.MatchString(trimmed) {
			result.Score += patternWeight
			result.Patterns = append(result.Patterns, p.name)
		}
	}

	if strings.HasSuffix(trimmed, "?") && !isRhetorical(trimmed) {
		result.Score += questionWeight
		result.Patterns = append(result.Patterns, "trailing_question")
	}

	if result.Score > 1.0 {
		result.Score = 1.0
	}

	return result
}

func isRhetorical(s string) bool {
	lower := strings.ToLower(s)
	for _, phrase := range rhetoricalAllowList {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// combineLayers is the single pure function that folds the four layer results
// into a ValidationResult. It owns both the confidence formula and the
// ordered status classification; no other code assigns a status.
func combineLayers(exact exactMatchResult, overlap overlapResult, contam contaminationResult, consensus consensusResult, cfg model.ValidationConfig) model.ValidationResult {
	semanticMatch := consensus.Score >= cfg.MinConsensusScore && consensus.Responded > 0
	semanticMatch = semanticMatch || exact.Matched

	var factors []float64
	if exact.Matched {
		factors = append(factors, 1.0)
	}
	if overlap.Ratio >= cfg.MinTokenOverlap {
		factors = append(factors, overlap.Ratio)
	} else {
		// Weak overlap still contributes, at half weight.
		factors = append(factors, overlap.Ratio*0.5)
	}
	if semanticMatch && consensus.Responded > 0 {
		factors = append(factors, consensus.Score)
	}

	confidence := mean(factors) * (1 - contam.Score*0.5)

	result := model.ValidationResult{
		Confidence:         confidence,
		ExactMatch:         exact.Matched,
		TokenOverlapRatio:  overlap.Ratio,
		ConsensusScore:     consensus.Score,
		ContaminationScore: contam.Score,
		SourceSegments:     exact.Segments,
	}

	// First matching rule wins; contamination outranks everything. Evidence
	// at or above MaxVerifiedContamination cannot rank better than PROBABLE
	// even when it falls short of the CONTAMINATED cutoff.
	cleanEnough := contam.Score < cfg.MaxVerifiedContamination
	switch {
	case contam.Score > cfg.ContaminationCutoff:
		result.Status = model.StatusContaminated
	case exact.Matched && overlap.Ratio >= cfg.MinTokenOverlap && cleanEnough:
		result.Status = model.StatusVerified
	case semanticMatch && overlap.Ratio >= cfg.MinTokenOverlap && cleanEnough:
		result.Status = model.StatusVerified
	case overlap.Ratio >= cfg.MinTokenOverlap:
		result.Status = model.StatusProbable
	case overlap.Ratio >= cfg.UncertainFloor:
		result.Status = model.StatusUncertain
	case overlap.Ratio < cfg.RefutedCeiling:
		result.Status = model.StatusRefuted
	default:
		result.Status = model.StatusInsufficient
	}

	return result
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
