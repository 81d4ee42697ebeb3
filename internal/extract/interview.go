package extract

import (
	"regexp"
	"strings"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// interviewerLabels are the speaker labels treated as researcher voice.
// Their scopes are still produced (so misattribution can be detected), but
// carry the "interviewer" role end to end.
var interviewerLabels = map[string]struct{}{
	"interviewer": {},
	"researcher":  {},
	"moderator":   {},
	"facilitator": {},
	"q":           {},
}

var interviewMarkerPattern = regexp.MustCompile(`(?mi)^(interviewer|researcher|moderator|facilitator)\s*:`)

// InterviewFormat handles Q/A-style interview transcripts with explicit
// researcher labels ("Interviewer:", "Moderator:").
type InterviewFormat struct{}

// NewInterviewFormat creates the adapter.
func NewInterviewFormat() *InterviewFormat {
	return &InterviewFormat{}
}

// Name returns the adapter name.
func (f *InterviewFormat) Name() string {
	return "interview"
}

// CanHandle looks for an explicit researcher label at a line start.
func (f *InterviewFormat) CanHandle(path string, content string) bool {
	return interviewMarkerPattern.MatchString(content)
}

// Scopes splits the transcript, assigning the interviewer role to labelled
// researcher speakers and the participant role to everyone else.
func (f *InterviewFormat) Scopes(content string, docID string, defaultRole string) ([]model.ScopedText, error) {
	turns := parseSpeakerLines(content, func(label string) string {
		if _, ok := interviewerLabels[strings.ToLower(label)]; ok {
			return "interviewer"
		}
		return defaultRole
	})
	return buildScopes(turns, docID, defaultRole), nil
}
