package offsetmap

import (
	"fmt"
	"strings"

	"github.com/dshills/treetext/internal/doctree"
)

// LeafContext describes where a leaf sits in its document, for locate
// functions that need structural context to disambiguate repeated text.
type LeafContext struct {
	// Path holds the node types from the root down to the leaf's parent.
	Path []string

	// Ordinal is the leaf's index in document order.
	Ordinal int

	// Prev and Next hold the text of the neighboring leaves, when any.
	Prev string
	Next string
}

// LocateFunc finds the text offset of a leaf's content, searching no
// earlier than from. It returns -1 when the content cannot be located.
type LocateFunc func(ctx LeafContext, text, leaf string, from int) int

// Run is one sub-run of a leaf produced by a Matcher. StructOffset is
// relative to the leaf's structural start; TextStart and TextEnd are
// absolute text offsets.
type Run struct {
	StructOffset int
	TextStart    int
	TextEnd      int
}

// Matcher locates a leaf whose content does not appear verbatim in the
// text, e.g. because the serializer escapes characters. It may split the
// leaf into several runs. Returning false means the leaf stays unmapped.
type Matcher interface {
	Match(leaf, text string, from int) ([]Run, bool)
}

// Option configures Build.
type Option func(*builder)

// WithLocate replaces the default forward-scan locate function.
func WithLocate(fn LocateFunc) Option {
	return func(b *builder) { b.locate = fn }
}

// WithMatcher installs a fallback matcher consulted when the exact
// search fails.
func WithMatcher(m Matcher) Option {
	return func(b *builder) { b.matcher = m }
}

// WithWarn installs a callback for non-fatal advisory conditions, such as
// a segment arriving out of order.
func WithWarn(fn func(string)) Option {
	return func(b *builder) { b.warn = fn }
}

type builder struct {
	locate  LocateFunc
	matcher Matcher
	warn    func(string)

	m          Map
	lastStruct int
	lastText   int
}

// Build aligns the leaves of tree with text. The default strategy locates
// each leaf by substring search seeded at the end of the previous match,
// which keeps segments monotonic without backtracking on repeated text.
// Leaves that cannot be located are counted in SkippedNodes.
func Build(tree *doctree.Node, text string, opts ...Option) *Map {
	b := &builder{locate: forwardLocate}
	for _, opt := range opts {
		opt(b)
	}
	b.m.TextLength = len(text)

	runs := collectLeaves(tree)
	for i, lr := range runs {
		if lr.node.Text == "" {
			continue
		}
		ctx := LeafContext{Path: lr.path, Ordinal: i}
		if i > 0 {
			ctx.Prev = runs[i-1].node.Text
		}
		if i+1 < len(runs) {
			ctx.Next = runs[i+1].node.Text
		}
		b.placeLeaf(ctx, text, lr)
	}
	return &b.m
}

func (b *builder) placeLeaf(ctx LeafContext, text string, lr leafRun) {
	leaf := lr.node.Text
	if at := b.locate(ctx, text, leaf, b.lastText); at >= 0 {
		b.append(Segment{
			StructStart: lr.pos,
			StructEnd:   lr.pos + len(leaf),
			TextStart:   at,
			TextEnd:     at + len(leaf),
		})
		return
	}
	if b.matcher != nil {
		if runs, ok := b.matcher.Match(leaf, text, b.lastText); ok {
			for _, r := range runs {
				b.append(Segment{
					StructStart: lr.pos + r.StructOffset,
					StructEnd:   lr.pos + r.StructOffset + (r.TextEnd - r.TextStart),
					TextStart:   r.TextStart,
					TextEnd:     r.TextEnd,
				})
			}
			return
		}
	}
	b.m.SkippedNodes++
}

// append adds a segment, enforcing monotonicity in both coordinate
// spaces. A violating segment is reported through the warn callback and
// dropped rather than corrupting the map.
func (b *builder) append(seg Segment) {
	if seg.StructStart < b.lastStruct || seg.TextStart < b.lastText {
		if b.warn != nil {
			b.warn(fmt.Sprintf(
				"offsetmap: segment out of order (struct %d/%d, text %d/%d); dropped",
				seg.StructStart, b.lastStruct, seg.TextStart, b.lastText))
		}
		return
	}
	b.m.Segments = append(b.m.Segments, seg)
	b.lastStruct = seg.StructEnd
	b.lastText = seg.TextEnd
}

// forwardLocate is the default locate function: exact substring search
// starting at the end of the previous match.
func forwardLocate(_ LeafContext, text, leaf string, from int) int {
	if from > len(text) {
		return -1
	}
	at := strings.Index(text[from:], leaf)
	if at < 0 {
		return -1
	}
	return from + at
}

type leafRun struct {
	pos  int
	node *doctree.Node
	path []string
}

// collectLeaves walks the tree in document order, assigning structural
// positions. The root's own boundaries sit outside the address space.
func collectLeaves(root *doctree.Node) []leafRun {
	var out []leafRun
	var walk func(n *doctree.Node, pos int, path []string) int
	walk = func(n *doctree.Node, pos int, path []string) int {
		for _, c := range n.Children {
			if c.IsLeaf() {
				out = append(out, leafRun{pos: pos, node: c, path: path})
				pos += len(c.Text)
				continue
			}
			childPath := append(append([]string{}, path...), c.Type)
			pos = walk(c, pos+1, childPath) + 1
		}
		return pos
	}
	walk(root, 0, []string{root.Type})
	return out
}
