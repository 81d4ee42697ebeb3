// Package span provides sentence-level span indexing over scoped text.
// All offsets are byte offsets into the original string; callers can slice
// the source with them and get back exactly the indexed sentence.
package span

import (
	"strings"
	"unicode"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// DefaultMinSentenceLen drops sentence fragments below this many bytes.
const DefaultMinSentenceLen = 20

// Sentence is one sentence-like span with its exact offsets.
type Sentence struct {
	Span model.Span
	Text string
}

// Indexer walks a text once, yielding sentence spans lazily. It is finite and
// non-restartable: after Next returns false it stays exhausted.
type Indexer struct {
	text     string
	pos      int
	minLen   int
	emitted  int
	sawTerm  bool
	done     bool
	fellBack bool
}

// NewIndexer creates an indexer over text. minLen <= 0 selects
// DefaultMinSentenceLen.
func NewIndexer(text string, minLen int) *Indexer {
	if minLen <= 0 {
		minLen = DefaultMinSentenceLen
	}
	return &Indexer{text: text, minLen: minLen}
}

// Next returns the next sentence span. The second return is false once the
// text is exhausted.
func (it *Indexer) Next() (Sentence, bool) {
	if it.done {
		return Sentence{}, false
	}

	for it.pos < len(it.text) {
		start := it.skipSpace(it.pos)
		if start >= len(it.text) {
			break
		}

		end := it.scanSentence(start)
		it.pos = end

		s := it.trimSpan(start, end)
		if s.End-s.Start >= it.minLen {
			it.emitted++
			return Sentence{Span: s, Text: it.text[s.Start:s.End]}, true
		}
	}

	it.done = true

	// Fallback: text with no terminal punctuation at all is still one span,
	// so callers never see an empty index for non-blank input.
	if !it.sawTerm && it.emitted == 0 && !it.fellBack {
		if s, ok := it.wholeText(); ok {
			it.fellBack = true
			return s, true
		}
	}

	return Sentence{}, false
}

// scanSentence advances from start to just past the next sentence terminator
// run, or to the end of the text.
func (it *Indexer) scanSentence(start int) int {
	i := start
	for i < len(it.text) {
		c := it.text[i]
		if c == '.' || c == '!' || c == '?' {
			it.sawTerm = true
			// Swallow terminator runs ("?!", "...").
			for i < len(it.text) && isTerminator(it.text[i]) {
				i++
			}
			// Only break on a real sentence boundary: terminator followed by
			// whitespace or end of text. Avoids splitting "3.5" or "e.g.x".
			if i >= len(it.text) || isSpaceByte(it.text[i]) {
				return i
			}
			continue
		}
		i++
	}
	return i
}

// trimSpan tightens [start, end) to exclude surrounding whitespace.
func (it *Indexer) trimSpan(start, end int) model.Span {
	for start < end && isSpaceByte(it.text[start]) {
		start++
	}
	for end > start && isSpaceByte(it.text[end-1]) {
		end--
	}
	return model.Span{Start: start, End: end}
}

func (it *Indexer) wholeText() (Sentence, bool) {
	s := it.trimSpan(0, len(it.text))
	if s.End <= s.Start {
		return Sentence{}, false
	}
	return Sentence{Span: s, Text: it.text[s.Start:s.End]}, true
}

func (it *Indexer) skipSpace(i int) int {
	for i < len(it.text) && isSpaceByte(it.text[i]) {
		i++
	}
	return i
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Collect drains the indexer into a slice. Convenience for callers that need
// the full index up front.
func Collect(text string, minLen int) []Sentence {
	it := NewIndexer(text, minLen)
	var out []Sentence
	for {
		s, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

// FieldTokens splits s into lowercase word tokens longer than minLen runes,
// stripping punctuation at token boundaries. Shared by the overlap scorer and
// the validation layers so both sides tokenize identically.
func FieldTokens(s string, minLen int) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if len([]rune(f)) > minLen {
			out = append(out, f)
		}
	}
	return out
}
