package validate

import (
	"context"
	"testing"
	"time"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/llm"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

func TestBatchValidate_AllItemsGetResults(t *testing.T) {
	e := newTestEngine(t, nil)

	inputs := []model.EvidenceInput{
		{Text: "My biggest frustration is the handoff process with engineers."},
		{Text: "I have been designing interfaces for eight years."},
		{Text: "Totally fabricated nonsense about submarine maintenance schedules."},
	}

	results := e.BatchValidate(context.Background(), inputs, testSource, 2)

	if len(results) != len(inputs) {
		t.Fatalf("Expected %d results, got %d", len(inputs), len(results))
	}
	for _, input := range inputs {
		key := model.NormalizeEvidenceText(input.Text)
		if _, ok := results[key]; !ok {
			t.Errorf("Missing result for %q", key)
		}
	}
}

func TestBatchValidate_DuplicatesValidatedOnce(t *testing.T) {
	e := newTestEngine(t, nil)

	inputs := []model.EvidenceInput{
		{Text: "I have been designing interfaces for eight years."},
		{Text: "  I have been designing interfaces for eight years.  "},
		{Text: "I have been designing interfaces for eight years."},
	}

	results := e.BatchValidate(context.Background(), inputs, testSource, 4)

	if len(results) != 1 {
		t.Fatalf("Expected 1 deduplicated result, got %d", len(results))
	}
	if _, ok := results["I have been designing interfaces for eight years."]; !ok {
		t.Error("Expected result keyed by trimmed evidence text")
	}
}

func TestBatchValidate_EmptyInputs(t *testing.T) {
	e := newTestEngine(t, nil)

	if got := e.BatchValidate(context.Background(), nil, testSource, 4); len(got) != 0 {
		t.Errorf("Expected empty result map, got %d entries", len(got))
	}

	blankOnly := []model.EvidenceInput{{Text: "   "}}
	if got := e.BatchValidate(context.Background(), blankOnly, testSource, 4); len(got) != 0 {
		t.Errorf("Expected blank-only inputs to be dropped, got %d entries", len(got))
	}
}

func TestBatchValidate_CancelledContext(t *testing.T) {
	e := newTestEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []model.EvidenceInput{
		{Text: "first evidence item for the cancelled batch"},
		{Text: "second evidence item for the cancelled batch"},
	}

	results := e.BatchValidate(ctx, inputs, testSource, 1)

	// Every item still receives a terminal result; none is silently dropped.
	if len(results) != len(inputs) {
		t.Fatalf("Expected %d results after cancellation, got %d", len(inputs), len(results))
	}
}

func TestBatchValidate_ConcurrentMatchesSequential(t *testing.T) {
	e := newTestEngine(t, nil)

	inputs := []model.EvidenceInput{
		{Text: "My biggest frustration is the handoff process with engineers."},
		{Text: "What I really want is to reduce that friction so my team ships faster."},
		{Text: "Completely unrelated fabricated material about orbital mechanics."},
	}

	sequential := e.BatchValidate(context.Background(), inputs, testSource, 1)
	concurrent := e.BatchValidate(context.Background(), inputs, testSource, 8)

	if len(sequential) != len(concurrent) {
		t.Fatalf("Result counts differ: %d vs %d", len(sequential), len(concurrent))
	}
	for key, seq := range sequential {
		conc, ok := concurrent[key]
		if !ok {
			t.Errorf("Missing concurrent result for %q", key)
			continue
		}
		if seq.Status != conc.Status {
			t.Errorf("%q: status %s (sequential) vs %s (concurrent)", key, seq.Status, conc.Status)
		}
		if seq.Confidence != conc.Confidence {
			t.Errorf("%q: confidence %f vs %f", key, seq.Confidence, conc.Confidence)
		}
	}
}

func TestQueryBackend_PanicBecomesNoAnswer(t *testing.T) {
	p := &stubProvider{name: "boom", panics: true}
	e := newTestEngine(t, []llm.Provider{p})

	if got := e.queryBackend(context.Background(), p, "evidence", "source"); got != answerNoAnswer {
		t.Errorf("Expected panicking backend to record no_answer, got %q", got)
	}
}

func TestQueryBackend_RecordsVerdict(t *testing.T) {
	tests := []struct {
		name  string
		match bool
		want  string
	}{
		{"match", true, answerMatch},
		{"no match", false, answerNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProvider{name: "stub", match: tt.match}
			e := newTestEngine(t, []llm.Provider{p})

			if got := e.queryBackend(context.Background(), p, "evidence", "source"); got != tt.want {
				t.Errorf("Expected verdict %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBatchValidate_PanickingBackendDoesNotAbortSiblings(t *testing.T) {
	p := &stubProvider{name: "boom", panics: true}
	e := newTestEngine(t, []llm.Provider{p})

	inputs := []model.EvidenceInput{
		{Text: "My biggest frustration is the handoff process with engineers."},
		{Text: "I have been designing interfaces for eight years."},
	}

	done := make(chan map[string]model.ValidationResult, 1)
	go func() {
		done <- e.BatchValidate(context.Background(), inputs, testSource, 2)
	}()

	select {
	case results := <-done:
		if len(results) != len(inputs) {
			t.Fatalf("Expected %d results, got %d", len(inputs), len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Batch hung after a backend panic")
	}
}
