// Package extract turns raw transcript documents into per-speaker scoped
// text and loads the claim sets produced by the upstream extraction stage.
// Format detection uses a registry of adapters with a plain-text fallback.
package extract

import (
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// Format is a transcript-format adapter. Each adapter knows how to recognize
// its format and split a document into one ScopedText per speaker.
type Format interface {
	// Name returns the adapter name.
	Name() string

	// CanHandle checks if this adapter can handle the given document.
	CanHandle(path string, content string) bool

	// Scopes splits the document into per-speaker scoped text. Speaker turn
	// order within a scope follows document order.
	Scopes(content string, docID string, defaultRole string) ([]model.ScopedText, error)
}

// Registry manages format adapters.
type Registry struct {
	formats []Format
	generic Format
}

// NewRegistry creates a registry with the built-in adapters registered in
// detection order: interview labels, generic speaker lines, HTML export.
func NewRegistry() *Registry {
	registry := &Registry{}

	registry.Register(NewInterviewFormat())
	registry.Register(NewSpeakerLineFormat())
	registry.Register(NewHTMLFormat())

	registry.generic = NewPlainTextFormat()

	return registry
}

// Register adds an adapter to the registry.
func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
}

// FindFormat picks the first adapter that recognizes the document, falling
// back to the plain-text adapter.
func (r *Registry) FindFormat(path string, content string) Format {
	for _, f := range r.formats {
		if f.CanHandle(path, content) {
			return f
		}
	}
	return r.generic
}

// speakerTurn is one attributed utterance found while scanning a transcript.
type speakerTurn struct {
	speaker string
	role    string
	text    string
}

// buildScopes groups turns by speaker, preserving first-appearance order of
// speakers and document order of turns within each scope.
func buildScopes(turns []speakerTurn, docID string, defaultRole string) []model.ScopedText {
	var order []string
	grouped := make(map[string][]speakerTurn)
	for _, t := range turns {
		if _, seen := grouped[t.speaker]; !seen {
			order = append(order, t.speaker)
		}
		grouped[t.speaker] = append(grouped[t.speaker], t)
	}

	scopes := make([]model.ScopedText, 0, len(order))
	for _, speaker := range order {
		var parts []string
		role := defaultRole
		for _, t := range grouped[speaker] {
			if t.text != "" {
				parts = append(parts, t.text)
			}
			if t.role != "" {
				role = t.role
			}
		}
		if len(parts) == 0 {
			continue
		}
		scopes = append(scopes, model.ScopedText{
			Text:        strings.Join(parts, " "),
			SpeakerID:   speaker,
			SpeakerRole: role,
			DocumentID:  docID,
		})
	}

	return scopes
}
