package extract

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/jadonwu-dev/axwise-flow-sub004/internal/model"
)

// HTMLFormat handles transcript exports saved as HTML (common for tools that
// export sessions as web pages). Visible text is extracted with scripts and
// styles skipped, then re-run through the text adapters for speaker
// splitting.
type HTMLFormat struct{}

// NewHTMLFormat creates the adapter.
func NewHTMLFormat() *HTMLFormat {
	return &HTMLFormat{}
}

// Name returns the adapter name.
func (f *HTMLFormat) Name() string {
	return "html"
}

// CanHandle accepts .html/.htm paths and documents that start with markup.
func (f *HTMLFormat) CanHandle(path string, content string) bool {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		return true
	}
	head := strings.TrimSpace(content)
	return strings.HasPrefix(head, "<!DOCTYPE") || strings.HasPrefix(head, "<html")
}

// Scopes extracts visible text and delegates speaker splitting to the text
// adapters.
func (f *HTMLFormat) Scopes(content string, docID string, defaultRole string) ([]model.ScopedText, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	text := extractVisibleText(doc)

	interview := NewInterviewFormat()
	if interview.CanHandle("", text) {
		return interview.Scopes(text, docID, defaultRole)
	}

	lines := NewSpeakerLineFormat()
	if lines.CanHandle("", text) {
		return lines.Scopes(text, docID, defaultRole)
	}

	return NewPlainTextFormat().Scopes(text, docID, defaultRole)
}

// extractVisibleText walks the node tree collecting text nodes, skipping
// script, style, noscript, and iframe subtrees. Lines are preserved so the
// speaker-line adapter can still find turn markers.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "div", "br", "li", "tr":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
