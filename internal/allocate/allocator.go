// Package allocate implements scoped evidence attribution: the deterministic
// greedy algorithm that turns claim strings into character-exact,
// speaker-attributed quotations without cross-field span duplication.
package allocate

import (
	"sort"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/metrics"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/score"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/span"
)

// Allocator assigns non-overlapping sentence spans to semantic fields for one
// speaker scope. Fields are processed strictly in the caller-supplied order:
// earlier fields have first claim on ambiguous, high-overlap sentences. This
// ordering must not be parallelized; the registry invariant depends on it.
type Allocator struct {
	cfg     model.AllocatorConfig
	scorer  *score.OverlapScorer
	hygiene *score.HygieneFilter
	metrics *metrics.Collector
}

// NewAllocator creates an allocator. A nil collector gets a private one.
func NewAllocator(cfg model.AllocatorConfig, collector *metrics.Collector) *Allocator {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &Allocator{
		cfg:     cfg,
		scorer:  score.NewOverlapScorer(cfg),
		hygiene: score.NewHygieneFilter(),
		metrics: collector,
	}
}

// candidate pairs a sentence span with its overlap score during ranking.
type candidate struct {
	sentence span.Sentence
	score    float64
}

// Allocate produces up to MaxEvidencePerField evidence items per claim field.
// prior carries externally supplied evidence; only the representative field
// consults it (pre-filled representative evidence is protected as-is).
// Degenerate inputs (empty claim value, empty scope, no sentence clearing the
// overlap gate) yield an empty list for that field, never an error.
func (a *Allocator) Allocate(scope model.ScopedText, claims []model.Claim, prior map[string][]model.EvidenceItem) map[string][]model.EvidenceItem {
	result := make(map[string][]model.EvidenceItem, len(claims))
	registry := NewUsedSpanRegistry()

	var repClaimed bool
	for _, claim := range claims {
		if claim.FieldName == a.cfg.RepresentativeField {
			repClaimed = true
			continue // handled after all contending fields settle
		}
		result[claim.FieldName] = a.allocateField(scope, claim, registry)
	}

	if repClaimed {
		result[a.cfg.RepresentativeField] = a.representative(result, prior)
	}

	return result
}

// allocateField runs the full gate chain for one field: sentence index →
// hygiene filter → overlap gate → registry collision check → rank and take.
func (a *Allocator) allocateField(scope model.ScopedText, claim model.Claim, registry *UsedSpanRegistry) []model.EvidenceItem {
	if claim.Value == "" || scope.IsEmpty() {
		return nil
	}

	var candidates []candidate
	it := span.NewIndexer(scope.Text, a.cfg.MinSentenceLen)
	for {
		sent, ok := it.Next()
		if !ok {
			break
		}
		a.metrics.SentenceChecked()

		if a.hygiene.IsRejected(sent.Text) {
			continue
		}

		accepted, overlap := a.scorer.Score(claim.Value, sent.Text)
		if !accepted {
			a.metrics.RejectedLowOverlap()
			continue
		}

		if registry.Conflicts(sent.Span) {
			a.metrics.RejectedCollision()
			continue
		}

		candidates = append(candidates, candidate{sentence: sent, score: overlap})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if li, lj := candidates[i].sentence.Span.Len(), candidates[j].sentence.Span.Len(); li != lj {
			return li > lj
		}
		return candidates[i].sentence.Span.Start < candidates[j].sentence.Span.Start
	})

	var items []model.EvidenceItem
	for _, c := range candidates {
		if len(items) >= a.cfg.MaxEvidencePerField {
			break
		}
		item, ok := a.acceptCandidate(scope, c.sentence.Span, registry)
		if !ok {
			continue
		}
		items = append(items, item)
	}

	return items
}

// acceptCandidate builds the evidence item for s, registers its span, and
// records allocation metrics. The registry is re-checked here: a span that
// slipped past the collection-time collision gate is still accepted, but the
// conflict feeds cross_field_duplicate_ratio so the breach is visible.
func (a *Allocator) acceptCandidate(scope model.ScopedText, s model.Span, registry *UsedSpanRegistry) (model.EvidenceItem, bool) {
	item, ok := BuildEvidenceItem(scope, s)
	if !ok {
		return model.EvidenceItem{}, false
	}
	dupe := registry.Conflicts(item.Span())
	// Insert before moving on: this is what guarantees cross-field
	// deduplication for every later field.
	registry.Add(item.Span())
	a.metrics.ItemAccepted(itemOffsetsValid(scope, item), dupe)
	return item, true
}

// representative resolves the one registry-exempt field. Pre-filled evidence
// is protected untouched; an empty field is backfilled with up to
// RepresentativeBackfill of the longest items accepted by other fields whose
// spans do not pairwise overlap. Backfills read the run's output without
// consuming registry slots a second time.
func (a *Allocator) representative(allocated map[string][]model.EvidenceItem, prior map[string][]model.EvidenceItem) []model.EvidenceItem {
	if existing := prior[a.cfg.RepresentativeField]; len(existing) > 0 {
		out := make([]model.EvidenceItem, len(existing))
		copy(out, existing)
		return out
	}

	var pool []model.EvidenceItem
	fields := make([]string, 0, len(allocated))
	for field := range allocated {
		if field == a.cfg.RepresentativeField {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields) // deterministic pool order regardless of map iteration
	for _, field := range fields {
		pool = append(pool, allocated[field]...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if li, lj := pool[i].Span().Len(), pool[j].Span().Len(); li != lj {
			return li > lj
		}
		return pool[i].Start < pool[j].Start
	})

	var picked []model.EvidenceItem
	for _, item := range pool {
		if len(picked) >= a.cfg.RepresentativeBackfill {
			break
		}
		conflict := false
		for _, p := range picked {
			if p.Span().Overlaps(item.Span()) {
				conflict = true
				break
			}
		}
		if !conflict {
			picked = append(picked, item)
		}
	}

	return picked
}

func itemOffsetsValid(scope model.ScopedText, item model.EvidenceItem) bool {
	s := item.Span()
	return s.Valid(len(scope.Text)) && scope.Text[s.Start:s.End] == item.Quote
}
