// Package lines implements the reference serialization format used by the
// tests and the CLI: a document is a flat list of paragraphs, one per
// line. It exists so the engine has a concrete format to exercise; real
// deployments plug in their own serialize/parse pair.
package lines

import (
	"fmt"
	"strings"

	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/offsetmap"
)

// Serialize renders a document as one line per paragraph.
func Serialize(tree *doctree.Node) (string, error) {
	var b strings.Builder
	for i, c := range tree.Children {
		if c.Type != "paragraph" {
			return "", fmt.Errorf("lines: unsupported node type %q", c.Type)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.LeafText())
	}
	return b.String(), nil
}

// Parse builds a document with one paragraph per line.
func Parse(text string) (*doctree.Node, error) {
	parts := strings.Split(text, "\n")
	children := make([]*doctree.Node, len(parts))
	for i, p := range parts {
		children[i] = doctree.NewContainer("paragraph", doctree.NewText(p))
	}
	return doctree.NewContainer("doc", children...), nil
}

// SerializeMapped renders the document while declaring mapped spans to an
// offset map recorder, demonstrating the exact-construction strategy:
// paragraph text is mapped, separators are not. warn may be nil.
func SerializeMapped(tree *doctree.Node, warn func(string)) (string, *offsetmap.Map, error) {
	r := offsetmap.NewRecorder(warn)
	pos := 0
	for i, c := range tree.Children {
		if c.Type != "paragraph" {
			return "", nil, fmt.Errorf("lines: unsupported node type %q", c.Type)
		}
		if i > 0 {
			r.Unmapped("\n")
		}
		text := c.LeafText()
		r.Mapped(pos+1, text)
		pos += 2 + len(text)
	}
	text, m := r.Finish()
	return text, m, nil
}
