package doctree

// Range describes a minimal replacement between two versions of a tree:
// children [From, To) of the previous root are replaced by children
// [From, ToB) of the next root.
type Range struct {
	From int
	To   int
	ToB  int
}

// ChangedRange computes the minimal child replacement range between two
// roots by trimming the longest common prefix and suffix of their child
// lists under deep equality (with a pointer-identity fast path).
//
// The second return value is false when the trees are equal and no
// replacement is needed.
func ChangedRange(prev, next *Node) (Range, bool) {
	prevN := prev.ChildCount()
	nextN := next.ChildCount()
	limit := min(prevN, nextN)

	prefix := 0
	for prefix < limit && Equal(prev.Children[prefix], next.Children[prefix]) {
		prefix++
	}

	if prefix == prevN && prefix == nextN {
		return Range{}, false
	}

	suffix := 0
	for suffix < limit-prefix &&
		Equal(prev.Children[prevN-1-suffix], next.Children[nextN-1-suffix]) {
		suffix++
	}

	return Range{
		From: prefix,
		To:   prevN - suffix,
		ToB:  nextN - suffix,
	}, true
}
