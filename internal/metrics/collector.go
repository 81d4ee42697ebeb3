// Package metrics aggregates allocation and validation counters for one
// processing run.
package metrics

import (
	"sync"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// Collector accumulates counters during a run and computes the derived
// ratios once at snapshot time. All methods are safe for concurrent use;
// batch validation records statuses from multiple goroutines.
type Collector struct {
	mu sync.Mutex

	checkedSentences   int
	rejectedLowOverlap int
	rejectedCollision  int
	acceptedItems      int
	validOffsets       int
	crossFieldDupes    int
	statusCounts       map[model.ValidationStatus]int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{statusCounts: make(map[model.ValidationStatus]int)}
}

// SentenceChecked records one candidate sentence scored against a claim.
func (c *Collector) SentenceChecked() {
	c.mu.Lock()
	c.checkedSentences++
	c.mu.Unlock()
}

// RejectedLowOverlap records a candidate that failed the overlap gate.
func (c *Collector) RejectedLowOverlap() {
	c.mu.Lock()
	c.rejectedLowOverlap++
	c.mu.Unlock()
}

// RejectedCollision records a candidate discarded for colliding with an
// already-allocated span.
func (c *Collector) RejectedCollision() {
	c.mu.Lock()
	c.rejectedCollision++
	c.mu.Unlock()
}

// ItemAccepted records one allocated evidence item. validOffsets should be
// true when the item's offsets slice back to its exact quote; crossFieldDupe
// should be true when the span collides with another field's item (a defect,
// counted so the ratio surfaces it).
func (c *Collector) ItemAccepted(validOffsets, crossFieldDupe bool) {
	c.mu.Lock()
	c.acceptedItems++
	if validOffsets {
		c.validOffsets++
	}
	if crossFieldDupe {
		c.crossFieldDupes++
	}
	c.mu.Unlock()
}

// StatusRecorded tallies one validation outcome.
func (c *Collector) StatusRecorded(status model.ValidationStatus) {
	c.mu.Lock()
	c.statusCounts[status]++
	c.mu.Unlock()
}

// Snapshot computes the derived ratios and returns a read-only Metrics value.
func (c *Collector) Snapshot() model.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := model.Metrics{
		CheckedSentences:   c.checkedSentences,
		RejectedLowOverlap: c.rejectedLowOverlap,
		RejectedCollision:  c.rejectedCollision,
		AcceptedItems:      c.acceptedItems,
	}

	if c.acceptedItems > 0 {
		m.OffsetCompleteness = float64(c.validOffsets) / float64(c.acceptedItems)
		m.CrossFieldDuplicateRatio = float64(c.crossFieldDupes) / float64(c.acceptedItems)
	}
	if c.checkedSentences > 0 {
		m.RejectionRateOverlap = float64(c.rejectedLowOverlap) / float64(c.checkedSentences)
	}

	if len(c.statusCounts) > 0 {
		m.StatusCounts = make(map[model.ValidationStatus]int, len(c.statusCounts))
		for k, v := range c.statusCounts {
			m.StatusCounts[k] = v
		}
	}

	return m
}
