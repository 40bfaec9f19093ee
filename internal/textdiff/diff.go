// Package textdiff computes the minimal changed span between two strings.
//
// The span is found by trimming the longest common prefix and the longest
// common suffix that does not overlap it. The scan works on bytes, so a
// boundary can land inside a multi-byte character; the result is a position
// hint for structure-aware consumers, not a semantic edit script. Use
// Span.SplitsCluster to detect when a boundary falls inside a grapheme
// cluster.
package textdiff

// Span is the minimal changed region between an old and a new string.
//
// Start is the first byte index where the strings diverge. EndA and EndB
// are exclusive end indexes into the old and new string respectively,
// after trimming the common suffix that does not cross Start.
//
// Invariants:
//   - 0 <= Start <= EndA <= len(old)
//   - 0 <= Start <= EndB <= len(new)
//   - old[:Start] == new[:Start]
//   - old[EndA:] == new[EndB:]
//   - Start == EndA && Start == EndB iff old == new
type Span struct {
	Start int
	EndA  int
	EndB  int
}

// Diff computes the minimal changed span between a and b.
// It is pure and runs in O(len(a)+len(b)) worst case; for a localized edit
// the cost is proportional to the changed region.
func Diff(a, b string) Span {
	limit := min(len(a), len(b))

	start := 0
	for start < limit && a[start] == b[start] {
		start++
	}

	endA, endB := len(a), len(b)
	for endA > start && endB > start && a[endA-1] == b[endB-1] {
		endA--
		endB--
	}

	return Span{Start: start, EndA: endA, EndB: endB}
}

// IsZero reports whether the span describes no change.
func (s Span) IsZero() bool {
	return s.Start == s.EndA && s.Start == s.EndB
}
