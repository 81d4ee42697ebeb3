package extract

import (
	"regexp"
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// speakerLinePattern matches "Name: utterance" turn markers. Names are
// short, start with a capital, and may span two words ("Dr. Patel").
var speakerLinePattern = regexp.MustCompile(`^([A-Z][\w.'-]*(?: [A-Z][\w.'-]*)?):\s*(.*)$`)

// SpeakerLineFormat handles transcripts where each turn starts with a
// "Name:" prefix on its own line. Continuation lines without a prefix belong
// to the previous speaker.
type SpeakerLineFormat struct{}

// NewSpeakerLineFormat creates the adapter.
func NewSpeakerLineFormat() *SpeakerLineFormat {
	return &SpeakerLineFormat{}
}

// Name returns the adapter name.
func (f *SpeakerLineFormat) Name() string {
	return "speaker-line"
}

// CanHandle requires at least two turn markers so a stray colon in prose
// does not trigger speaker splitting.
func (f *SpeakerLineFormat) CanHandle(path string, content string) bool {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if speakerLinePattern.MatchString(strings.TrimSpace(line)) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

// Scopes splits the transcript into per-speaker scoped text.
func (f *SpeakerLineFormat) Scopes(content string, docID string, defaultRole string) ([]model.ScopedText, error) {
	turns := parseSpeakerLines(content, nil)
	return buildScopes(turns, docID, defaultRole), nil
}

// parseSpeakerLines walks the transcript line by line, opening a new turn at
// each "Name:" marker and appending continuation lines to the current turn.
// roleFor, when non-nil, maps a speaker label to a role.
func parseSpeakerLines(content string, roleFor func(label string) string) []speakerTurn {
	var turns []speakerTurn
	var current *speakerTurn

	flush := func() {
		if current != nil && strings.TrimSpace(current.text) != "" {
			current.text = strings.TrimSpace(current.text)
			turns = append(turns, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := speakerLinePattern.FindStringSubmatch(line); m != nil {
			flush()
			role := ""
			if roleFor != nil {
				role = roleFor(m[1])
			}
			current = &speakerTurn{speaker: m[1], role: role, text: m[2]}
			continue
		}

		if current != nil {
			current.text += " " + line
		}
	}
	flush()

	return turns
}
