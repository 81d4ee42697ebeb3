package allocate

import "github.com/jadonwu-dev/axwise-flow-sub004/internal/model"

// UsedSpanRegistry tracks every span already allocated to a non-exempt field
// within one persona-scope run. It is owned by a single Allocator run and
// mutated only by that one sequential thread of control; the collision-free
// invariant depends on allocation decisions being totally ordered.
type UsedSpanRegistry struct {
	spans []model.Span
}

// NewUsedSpanRegistry creates an empty registry.
func NewUsedSpanRegistry() *UsedSpanRegistry {
	return &UsedSpanRegistry{}
}

// Conflicts reports whether s overlaps any registered span.
func (r *UsedSpanRegistry) Conflicts(s model.Span) bool {
	for _, used := range r.spans {
		if used.Overlaps(s) {
			return true
		}
	}
	return false
}

// Add registers s. Callers must check Conflicts first; Add does not re-check.
func (r *UsedSpanRegistry) Add(s model.Span) {
	r.spans = append(r.spans, s)
}

// Len returns the number of registered spans.
func (r *UsedSpanRegistry) Len() int {
	return len(r.spans)
}
