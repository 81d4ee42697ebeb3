package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/extract"
	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

const pipelineTranscript = `Interviewer: Can you tell me about your background?
Alice: I am a senior product designer and I have been doing this for eight years.
Interviewer: What frustrates you most day to day?
Alice: My biggest frustration is the design handoff process because engineers keep ignoring the annotations.
Alice: What I really want is to reduce that handoff friction so my team ships faster.
`

const pipelineClaims = `{
  "document_id": "interview-01",
  "speakers": [
    {
      "speaker_id": "alice",
      "claims": [
        {"field_name": "demographics", "value": "Senior product designer with eight years of experience"},
        {"field_name": "goals_and_motivations", "value": "Wants to reduce design handoff friction with engineers"},
        {"field_name": "representative_quotes", "value": "auto"}
      ]
    }
  ]
}`

func testPipelineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false // no backends configured, nothing to cache
	return cfg
}

func writePipelineFixture(t *testing.T) (transcriptPath string) {
	t.Helper()
	dir := t.TempDir()
	transcriptPath = filepath.Join(dir, "interview-01.txt")
	require.NoError(t, os.WriteFile(transcriptPath, []byte(pipelineTranscript), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "interview-01.claims.json"), []byte(pipelineClaims), 0644))
	return transcriptPath
}

func TestPipeline_ProcessFile(t *testing.T) {
	p := NewPipeline(testPipelineConfig(), nil)

	report, err := p.ProcessFile(context.Background(), writePipelineFixture(t), "")
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Scopes, 1)
	assert.Equal(t, "Alice", report.Scopes[0].SpeakerID, "claims speaker matched case-insensitively")

	// Both contending fields got evidence.
	assert.NotEmpty(t, report.Evidence["demographics"])
	assert.NotEmpty(t, report.Evidence["goals_and_motivations"])

	// Every allocated quote got a validation result keyed by its text.
	for field, items := range report.Evidence {
		for _, item := range items {
			_, ok := report.Validation[model.NormalizeEvidenceText(item.Quote)]
			assert.True(t, ok, "missing validation for %s quote %q", field, item.Quote)
		}
	}

	assert.Equal(t, 1.0, report.Metrics.OffsetCompleteness)
	assert.Equal(t, 0.0, report.Metrics.CrossFieldDuplicateRatio)
}

func TestPipeline_VerbatimQuotesVerify(t *testing.T) {
	p := NewPipeline(testPipelineConfig(), nil)

	report, err := p.ProcessFile(context.Background(), writePipelineFixture(t), "")
	require.NoError(t, err)

	// Allocated quotes are exact slices of the transcript, so without
	// backends the lexical layers alone must verify them.
	for _, items := range report.Evidence {
		for _, item := range items {
			v := report.Validation[model.NormalizeEvidenceText(item.Quote)]
			assert.Equal(t, model.StatusVerified, v.Status, "quote %q", item.Quote)
			assert.True(t, v.ExactMatch)
		}
	}
}

func TestPipeline_MissingClaimsFile(t *testing.T) {
	dir := t.TempDir()
	transcript := filepath.Join(dir, "orphan.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("some transcript text."), 0644))

	p := NewPipeline(testPipelineConfig(), nil)
	_, err := p.ProcessFile(context.Background(), transcript, "")
	assert.Error(t, err)
}

func TestPipeline_UnknownSpeakerSkipped(t *testing.T) {
	set := &extract.ClaimSet{
		DocumentID: "doc",
		Speakers: []extract.SpeakerClaims{
			{SpeakerID: "Zelda", Claims: []model.Claim{{FieldName: "needs", Value: "anything"}}},
		},
	}

	p := NewPipeline(testPipelineConfig(), nil)
	report, err := p.ProcessDocument(context.Background(), "doc", "doc.txt", pipelineTranscript, set)
	require.NoError(t, err)

	assert.Empty(t, report.Scopes, "unmatched speaker produces no scope summary")
	assert.Empty(t, report.Evidence)
}

func TestPipeline_PlainTextAcceptsAnySpeaker(t *testing.T) {
	content := "I am a freelance illustrator. Deadlines from agencies are my biggest source of stress these days."
	set := &extract.ClaimSet{
		DocumentID: "diary",
		Speakers: []extract.SpeakerClaims{
			{SpeakerID: "Participant-7", Claims: []model.Claim{
				{FieldName: "pain_points", Value: "Stress from agency deadlines"},
			}},
		},
	}

	p := NewPipeline(testPipelineConfig(), nil)
	report, err := p.ProcessDocument(context.Background(), "diary", "diary.txt", content, set)
	require.NoError(t, err)

	require.Len(t, report.Scopes, 1)
	assert.Equal(t, "Participant-7", report.Scopes[0].SpeakerID)
	require.NotEmpty(t, report.Evidence["pain_points"])
	assert.Equal(t, "Participant-7", report.Evidence["pain_points"][0].Speaker)
}

func TestFindScope(t *testing.T) {
	scopes := []model.ScopedText{
		{SpeakerID: "Alice", Text: "a"},
		{SpeakerID: "Bob", Text: "b"},
	}

	got, ok := findScope(scopes, "ALICE")
	require.True(t, ok)
	assert.Equal(t, "Alice", got.SpeakerID)

	_, ok = findScope(scopes, "Carol")
	assert.False(t, ok)
}

func TestRenderer_JSONAndMarkdown(t *testing.T) {
	p := NewPipeline(testPipelineConfig(), nil)
	report, err := p.ProcessFile(context.Background(), writePipelineFixture(t), "")
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")

	r := NewRenderer(true)
	require.NoError(t, r.RenderJSON(report, jsonPath))
	require.NoError(t, r.RenderMarkdown(report, mdPath))

	jsonData, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"start_char"`)

	mdData, err := os.ReadFile(mdPath)
	require.NoError(t, err)
	md := string(mdData)
	assert.Contains(t, md, "# Evidence Grounding Report")
	assert.Contains(t, md, "### demographics")
	assert.Contains(t, md, "Generated by axwise")

	// Without the footer flag the trailer is omitted.
	bare := NewRenderer(false)
	require.NoError(t, bare.RenderMarkdown(report, mdPath))
	mdData, err = os.ReadFile(mdPath)
	require.NoError(t, err)
	assert.NotContains(t, string(mdData), "Generated by axwise")
}

func TestRenderer_MarkdownFieldOrderStable(t *testing.T) {
	report := &model.GroundingReport{
		Evidence: map[string][]model.EvidenceItem{
			"needs":        {{Quote: "q1", Speaker: "A", DocumentID: "d"}},
			"behaviors":    {{Quote: "q2", Speaker: "A", DocumentID: "d"}},
			"demographics": {{Quote: "q3", Speaker: "A", DocumentID: "d"}},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "r.md")
	r := NewRenderer(false)

	require.NoError(t, r.RenderMarkdown(report, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	md := string(data)
	iBehaviors := strings.Index(md, "### behaviors")
	iDemo := strings.Index(md, "### demographics")
	iNeeds := strings.Index(md, "### needs")
	require.True(t, iBehaviors >= 0 && iDemo >= 0 && iNeeds >= 0)
	assert.Less(t, iBehaviors, iDemo)
	assert.Less(t, iDemo, iNeeds)
}
