package metrics

import (
	"sync"
	"testing"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	for i := 0; i < 10; i++ {
		c.SentenceChecked()
	}
	for i := 0; i < 4; i++ {
		c.RejectedLowOverlap()
	}
	c.RejectedCollision()
	c.ItemAccepted(true, false)
	c.ItemAccepted(true, false)
	c.ItemAccepted(false, true)

	m := c.Snapshot()

	if m.CheckedSentences != 10 {
		t.Errorf("expected 10 checked sentences, got %d", m.CheckedSentences)
	}
	if m.RejectedLowOverlap != 4 {
		t.Errorf("expected 4 overlap rejections, got %d", m.RejectedLowOverlap)
	}
	if m.RejectedCollision != 1 {
		t.Errorf("expected 1 collision rejection, got %d", m.RejectedCollision)
	}
	if m.AcceptedItems != 3 {
		t.Errorf("expected 3 accepted items, got %d", m.AcceptedItems)
	}
}

func TestCollector_DerivedRatios(t *testing.T) {
	c := NewCollector()

	c.SentenceChecked()
	c.SentenceChecked()
	c.RejectedLowOverlap()
	c.ItemAccepted(true, false)
	c.ItemAccepted(false, false)

	m := c.Snapshot()

	if m.OffsetCompleteness != 0.5 {
		t.Errorf("expected offset completeness 0.5, got %f", m.OffsetCompleteness)
	}
	if m.RejectionRateOverlap != 0.5 {
		t.Errorf("expected rejection rate 0.5, got %f", m.RejectionRateOverlap)
	}
}

func TestCollector_EmptySnapshot(t *testing.T) {
	m := NewCollector().Snapshot()

	if m.OffsetCompleteness != 0 || m.CrossFieldDuplicateRatio != 0 || m.RejectionRateOverlap != 0 {
		t.Error("expected zero ratios with no activity")
	}
	if m.StatusCounts != nil {
		t.Error("expected nil status counts with no validations")
	}
}

func TestCollector_StatusCounts(t *testing.T) {
	c := NewCollector()
	c.StatusRecorded(model.StatusVerified)
	c.StatusRecorded(model.StatusVerified)
	c.StatusRecorded(model.StatusRefuted)

	m := c.Snapshot()

	if m.StatusCounts[model.StatusVerified] != 2 {
		t.Errorf("expected 2 verified, got %d", m.StatusCounts[model.StatusVerified])
	}
	if m.StatusCounts[model.StatusRefuted] != 1 {
		t.Errorf("expected 1 refuted, got %d", m.StatusCounts[model.StatusRefuted])
	}
}

func TestCollector_SnapshotIsolated(t *testing.T) {
	c := NewCollector()
	c.StatusRecorded(model.StatusVerified)

	m := c.Snapshot()
	m.StatusCounts[model.StatusVerified] = 99

	if again := c.Snapshot(); again.StatusCounts[model.StatusVerified] != 1 {
		t.Error("snapshot must copy status counts, not share the map")
	}
}

func TestCollector_ConcurrentUse(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.SentenceChecked()
				c.StatusRecorded(model.StatusProbable)
			}
		}()
	}
	wg.Wait()

	m := c.Snapshot()
	if m.CheckedSentences != 800 {
		t.Errorf("expected 800 checked sentences, got %d", m.CheckedSentences)
	}
	if m.StatusCounts[model.StatusProbable] != 800 {
		t.Errorf("expected 800 probable, got %d", m.StatusCounts[model.StatusProbable])
	}
}
