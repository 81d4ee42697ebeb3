package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// Renderer writes grounding reports as JSON and Markdown.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON.
func (r *Renderer) RenderJSON(report *model.GroundingReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable report.
func (r *Renderer) RenderMarkdown(report *model.GroundingReport, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Evidence Grounding Report\n\n")
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	fmt.Fprintf(&b, "- Run: `%s`\n", report.RunID)
	fmt.Fprintf(&b, "- Processed: %s\n\n", report.ProcessedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Speakers\n\n")
	for _, scope := range report.Scopes {
		fmt.Fprintf(&b, "- **%s** (%s) — %d claims, %d grounded quotes\n",
			scope.SpeakerID, scope.SpeakerRole, scope.ClaimCount, scope.ItemCount)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Evidence\n\n")
	for _, field := range sortedFields(report.Evidence) {
		items := report.Evidence[field]
		fmt.Fprintf(&b, "### %s\n\n", field)
		for _, item := range items {
			status := ""
			if v, ok := report.Validation[model.NormalizeEvidenceText(item.Quote)]; ok {
				status = fmt.Sprintf(" _[%s, confidence %.2f]_", v.Status, v.Confidence)
			}
			fmt.Fprintf(&b, "> %s\n>\n> — %s, `%s` [%d:%d]%s\n\n",
				item.Quote, item.Speaker, item.DocumentID, item.Start, item.End, status)
		}
	}

	fmt.Fprintf(&b, "## Metrics\n\n")
	m := report.Metrics
	fmt.Fprintf(&b, "- Sentences checked: %d\n", m.CheckedSentences)
	fmt.Fprintf(&b, "- Rejected (low overlap): %d\n", m.RejectedLowOverlap)
	fmt.Fprintf(&b, "- Rejected (span collision): %d\n", m.RejectedCollision)
	fmt.Fprintf(&b, "- Accepted items: %d\n", m.AcceptedItems)
	fmt.Fprintf(&b, "- Offset completeness: %.2f\n", m.OffsetCompleteness)
	fmt.Fprintf(&b, "- Cross-field duplicate ratio: %.2f\n", m.CrossFieldDuplicateRatio)
	fmt.Fprintf(&b, "- Overlap rejection rate: %.2f\n", m.RejectionRateOverlap)

	if len(m.StatusCounts) > 0 {
		fmt.Fprintf(&b, "\n## Validation\n\n")
		for _, status := range sortedStatuses(m.StatusCounts) {
			fmt.Fprintf(&b, "- %s: %d\n", status, m.StatusCounts[status])
		}
	}

	if r.includeFooter {
		b.WriteString("\n---\n_Generated by axwise. Quotations are byte-exact slices of the source transcript; validation describes support, not truth._\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

// RenderSummary prints a one-screen summary to stdout.
func (r *Renderer) RenderSummary(report *model.GroundingReport) {
	fmt.Printf("Grounded %d quotes across %d fields (%d speakers)\n",
		report.Metrics.AcceptedItems, len(report.Evidence), len(report.Scopes))

	if len(report.Metrics.StatusCounts) > 0 {
		var parts []string
		for _, status := range sortedStatuses(report.Metrics.StatusCounts) {
			parts = append(parts, fmt.Sprintf("%s=%d", status, report.Metrics.StatusCounts[status]))
		}
		fmt.Printf("Validation: %s\n", strings.Join(parts, " "))
	}
}

func sortedFields(evidence map[string][]model.EvidenceItem) []string {
	fields := make([]string, 0, len(evidence))
	for field := range evidence {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func sortedStatuses(counts map[model.ValidationStatus]int) []model.ValidationStatus {
	statuses := make([]model.ValidationStatus, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i] < statuses[j] })
	return statuses
}
