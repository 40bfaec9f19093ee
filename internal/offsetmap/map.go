package offsetmap

import "sort"

// Segment ties a structural position range to a text offset range. Within
// a segment the two spaces translate linearly, so the ranges always have
// equal length.
type Segment struct {
	StructStart int
	StructEnd   int
	TextStart   int
	TextEnd     int
}

// Map is an ordered set of segments aligning a document tree with its
// serialized text.
type Map struct {
	// Segments is sorted and non-overlapping in both coordinate spaces.
	Segments []Segment

	// TextLength is the length of the serialized text the map was built
	// against.
	TextLength int

	// SkippedNodes counts leaves that could not be located in the text.
	// A non-zero count means coverage gaps, not an error.
	SkippedNodes int
}

// Lookup translates a structural position into a text offset. Positions
// inside a segment translate linearly; positions between or outside
// segments snap to the numerically closer boundary, with ties favoring
// the earlier one. An empty map reports no result.
func (m *Map) Lookup(structPos int) (int, bool) {
	n := len(m.Segments)
	if n == 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool {
		return m.Segments[i].StructEnd >= structPos
	})
	if i == n {
		return m.Segments[n-1].TextEnd, true
	}
	seg := m.Segments[i]
	if structPos >= seg.StructStart {
		return seg.TextStart + (structPos - seg.StructStart), true
	}
	if i == 0 {
		return seg.TextStart, true
	}
	prev := m.Segments[i-1]
	if structPos-prev.StructEnd <= seg.StructStart-structPos {
		return prev.TextEnd, true
	}
	return seg.TextStart, true
}

// ReverseLookup translates a text offset into a structural position,
// with the same snapping rules as Lookup.
func (m *Map) ReverseLookup(textOff int) (int, bool) {
	n := len(m.Segments)
	if n == 0 {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool {
		return m.Segments[i].TextEnd >= textOff
	})
	if i == n {
		return m.Segments[n-1].StructEnd, true
	}
	seg := m.Segments[i]
	if textOff >= seg.TextStart {
		return seg.StructStart + (textOff - seg.TextStart), true
	}
	if i == 0 {
		return seg.StructStart, true
	}
	prev := m.Segments[i-1]
	if textOff-prev.TextEnd <= seg.TextStart-textOff {
		return prev.StructEnd, true
	}
	return seg.StructStart, true
}
