package extract

import (
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// PlainTextFormat is the fallback adapter: the whole document becomes one
// scope attributed to an unnamed speaker. Useful for monologue notes and
// diary studies where there are no turn markers.
type PlainTextFormat struct{}

// NewPlainTextFormat creates the adapter.
func NewPlainTextFormat() *PlainTextFormat {
	return &PlainTextFormat{}
}

// Name returns the adapter name.
func (f *PlainTextFormat) Name() string {
	return "plain-text"
}

// CanHandle always succeeds; this adapter is the registry fallback.
func (f *PlainTextFormat) CanHandle(path string, content string) bool {
	return true
}

// Scopes returns the whole document as a single speaker scope.
func (f *PlainTextFormat) Scopes(content string, docID string, defaultRole string) ([]model.ScopedText, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, nil
	}

	return []model.ScopedText{{
		Text:        text,
		SpeakerID:   "speaker",
		SpeakerRole: defaultRole,
		DocumentID:  docID,
	}}, nil
}
