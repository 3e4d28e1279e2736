package highlight

import (
	"slices"
	"sort"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// segment is a run of text covered by the same set of annotations.
type segment struct {
	start, end int
	active     []int // annotation indexes, outermost first
}

// segmentize cuts [0, n) at every annotation boundary. Empty annotations are
// ignored and spans are clamped to the text.
func segmentize(n int, annotations []types.Annotation) []segment {
	spans := make([]types.Span, len(annotations))
	bounds := []int{0, n}
	for i, a := range annotations {
		s := types.Span{Start: clamp(a.Span.Start, n), End: clamp(a.Span.End, n)}
		spans[i] = s
		if !s.Empty() {
			bounds = append(bounds, s.Start, s.End)
		}
	}
	sort.Ints(bounds)
	bounds = slices.Compact(bounds)

	segments := make([]segment, 0, len(bounds)-1)
	for k := 0; k+1 < len(bounds); k++ {
		seg := segment{start: bounds[k], end: bounds[k+1]}
		for i, s := range spans {
			if !s.Empty() && s.Start <= seg.start && s.End >= seg.end {
				seg.active = append(seg.active, i)
			}
		}
		sort.SliceStable(seg.active, func(x, y int) bool {
			a, b := spans[seg.active[x]], spans[seg.active[y]]
			if a.Start != b.Start {
				return a.Start < b.Start
			}
			return a.End > b.End
		})
		segments = append(segments, seg)
	}
	return segments
}

// commonPrefix returns the length of the shared prefix of a and b.
func commonPrefix(a, b []int) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func clamp(v, n int) int {
	return max(0, min(v, n))
}
