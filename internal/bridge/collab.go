package bridge

import "github.com/dshills/treetext/internal/doctree"

// EditTag is the opaque metadata the bridge attaches to every tree edit
// it dispatches. The reverse-direction observer reads it back to suppress
// synchronization loops; the history flag lets a caller keep an edit out
// of the undo stack.
type EditTag struct {
	Origin       string
	AddToHistory bool
}

// TreeEditor is the structured-document editing collaborator. The editor
// owns the tree; the bridge never mutates nodes, it only asks the editor
// to replace child ranges.
type TreeEditor interface {
	// Root returns the current document root.
	Root() *doctree.Node

	// Replace substitutes children [from, to) of the root with slice,
	// atomically, tagged with tag.
	Replace(from, to int, slice []*doctree.Node, tag EditTag) error
}

// TextBuffer is the text-widget collaborator.
type TextBuffer interface {
	String() string
	ReplaceRange(from, to int, s string) error
}

// TaggedEditor wraps a TreeEditor and rewrites the origin of every edit
// passing through it, forwarding everything else untouched. It is the
// adapter to use when a third-party component must see its own edits
// under a different origin than the bridge's.
type TaggedEditor struct {
	Inner  TreeEditor
	Origin string
}

// Root forwards to the wrapped editor.
func (t *TaggedEditor) Root() *doctree.Node {
	return t.Inner.Root()
}

// Replace forwards the edit with the origin rewritten.
func (t *TaggedEditor) Replace(from, to int, slice []*doctree.Node, tag EditTag) error {
	tag.Origin = t.Origin
	return t.Inner.Replace(from, to, slice, tag)
}
