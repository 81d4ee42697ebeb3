package allocate

import "github.com/jadonwu-dev/axwise-flow-sub004/internal/model"

// BuildEvidenceItem promotes an allocated span to an evidence item. The span
// is tightened to exclude surrounding whitespace so that Quote is byte-exact
// equal to scope.Text[Start:End]; speaker and document identity are copied
// verbatim. No paraphrasing or normalization of the quote is permitted.
// Returns false for a span that is empty after trimming or out of bounds.
func BuildEvidenceItem(scope model.ScopedText, s model.Span) (model.EvidenceItem, bool) {
	if !s.Valid(len(scope.Text)) {
		return model.EvidenceItem{}, false
	}

	start, end := s.Start, s.End
	for start < end && isSpaceByte(scope.Text[start]) {
		start++
	}
	for end > start && isSpaceByte(scope.Text[end-1]) {
		end--
	}
	if start >= end {
		return model.EvidenceItem{}, false
	}

	return model.EvidenceItem{
		Quote:       scope.Text[start:end],
		Start:       start,
		End:         end,
		Speaker:     scope.SpeakerID,
		SpeakerRole: scope.SpeakerRole,
		DocumentID:  scope.DocumentID,
	}, true
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
