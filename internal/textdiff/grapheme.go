package textdiff

import "github.com/rivo/uniseg"

// SplitsCluster reports whether any of the span's boundaries falls inside
// a grapheme cluster of the string it indexes into. The diff itself is
// byte-granular on purpose; this is the advisory companion that lets a
// caller flag (not fix) a boundary that splits a combining sequence.
func (s Span) SplitsCluster(a, b string) bool {
	// a[:Start] == b[:Start], so the Start boundary only needs one check.
	return insideCluster(a, s.Start) ||
		insideCluster(a, s.EndA) ||
		insideCluster(b, s.EndB)
}

// insideCluster reports whether pos is strictly inside a grapheme cluster
// of s. Positions at cluster boundaries (including 0 and len(s)) are fine.
func insideCluster(s string, pos int) bool {
	if pos <= 0 || pos >= len(s) {
		return false
	}
	state := -1
	rest := s
	at := 0
	for len(rest) > 0 {
		cluster, tail, _, st := uniseg.StepString(rest, state)
		state = st
		next := at + len(cluster)
		if pos > at && pos < next {
			return true
		}
		if pos <= next {
			return false
		}
		at = next
		rest = tail
	}
	return false
}
