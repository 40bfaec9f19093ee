package doctree

import (
	"reflect"
	"strings"
)

// TextType is the node type used for inline text leaves.
const TextType = "text"

// Node is a single node in a structured document tree.
//
// A node is either a container (Children non-nil, Text empty) or a leaf
// (Children nil). Nodes are immutable by convention: build a new node
// instead of modifying one that has been published.
type Node struct {
	// Type is the node's type tag, e.g. "doc", "paragraph", "text".
	Type string

	// Attrs holds optional node attributes, e.g. a heading level.
	Attrs map[string]any

	// Children is the ordered child list for container nodes.
	Children []*Node

	// Text is the inline text for leaf nodes.
	Text string
}

// NewContainer creates a container node with the given children.
func NewContainer(typ string, children ...*Node) *Node {
	return &Node{Type: typ, Children: children}
}

// NewText creates a text leaf node.
func NewText(text string) *Node {
	return &Node{Type: TextType, Text: text}
}

// IsLeaf reports whether the node is a leaf (has no child list).
func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// Size returns the number of address-space units the node occupies:
// leaves cost their text length, containers cost one open unit plus one
// close unit around the total size of their content.
func (n *Node) Size() int {
	if n.IsLeaf() {
		return len(n.Text)
	}
	size := 2
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// Child returns the i-th child, or nil if i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// ChildSlice returns the children in [from, to). The slice aliases the
// node's child list; callers must not modify it.
func (n *Node) ChildSlice(from, to int) []*Node {
	if from < 0 {
		from = 0
	}
	if to > len(n.Children) {
		to = len(n.Children)
	}
	if from >= to {
		return nil
	}
	return n.Children[from:to]
}

// LeafText returns the concatenated text of all leaves under the node.
func (n *Node) LeafText() string {
	if n.IsLeaf() {
		return n.Text
	}
	var b strings.Builder
	n.appendLeafText(&b)
	return b.String()
}

func (n *Node) appendLeafText(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.appendLeafText(b)
	}
}

// Equal reports deep equality of two trees: same type, attrs, text, and
// recursively equal children. Pointer-identical nodes compare equal
// without descending.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Type != b.Type || a.Text != b.Text {
		return false
	}
	if !attrsEqual(a.Attrs, b.Attrs) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if (a.Children == nil) != (b.Children == nil) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func attrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		// Decoded attrs can hold nested maps and slices, which are not
		// comparable with ==.
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}

// WithChildren returns a copy of the node with the given child list.
// The original node is not modified.
func (n *Node) WithChildren(children []*Node) *Node {
	out := &Node{Type: n.Type, Attrs: n.Attrs, Children: children}
	return out
}
