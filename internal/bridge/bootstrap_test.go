package bridge

import (
	"errors"
	"testing"

	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/format/lines"
)

func bootBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	return New(newMemEditor(t, ""), lines.Serialize, lines.Parse, opts...)
}

func mustParse(t *testing.T, text string) *doctree.Node {
	t.Helper()
	tree, err := lines.Parse(text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return tree
}

func TestBootstrapBothEmpty(t *testing.T) {
	t.Run("no initial text stays empty", func(t *testing.T) {
		res := bootBridge(t).Bootstrap("", nil, "", PreferText)
		if res.Source != SourceEmpty {
			t.Errorf("source = %q, want empty", res.Source)
		}
		if res.Tree != nil || res.Text != "" || res.Stale {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("initial text seeds both sides", func(t *testing.T) {
		res := bootBridge(t).Bootstrap("", nil, "a\r\nb", PreferText)
		if res.Source != SourceInitial {
			t.Fatalf("source = %q, want initial", res.Source)
		}
		// Seeded structured-first: the canonical text is re-derived from
		// the tree, so it is already normalized.
		if res.Text != "a\nb" {
			t.Errorf("text = %q, want %q", res.Text, "a\nb")
		}
		if res.Tree == nil || res.Tree.ChildCount() != 2 {
			t.Errorf("tree = %+v", res.Tree)
		}
		if res.Stale {
			t.Error("clean seed must not be stale")
		}
	})
}

func TestBootstrapOneSided(t *testing.T) {
	t.Run("text only", func(t *testing.T) {
		res := bootBridge(t).Bootstrap("a\nb", nil, "", PreferText)
		if res.Source != SourceText {
			t.Fatalf("source = %q, want text", res.Source)
		}
		if res.Tree == nil || res.Text != "a\nb" {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("structured only", func(t *testing.T) {
		tree := mustParse(t, "a\nb")
		res := bootBridge(t).Bootstrap("", tree, "", PreferText)
		if res.Source != SourceStructured {
			t.Fatalf("source = %q, want structured", res.Source)
		}
		if res.Tree != tree || res.Text != "a\nb" {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestBootstrapBothPresent(t *testing.T) {
	t.Run("canonical agreement", func(t *testing.T) {
		tree := mustParse(t, "a\nb")
		res := bootBridge(t).Bootstrap("a\r\nb", tree, "", PreferText)
		if res.Source != SourceBothMatch {
			t.Fatalf("source = %q, want both-match", res.Source)
		}
		if res.Tree != tree || res.Text != "a\nb" {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("conflict prefers text by default", func(t *testing.T) {
		tree := mustParse(t, "old")
		res := bootBridge(t).Bootstrap("new", tree, "", PreferText)
		if res.Source != SourceText {
			t.Fatalf("source = %q, want text", res.Source)
		}
		if res.Text != "new" {
			t.Errorf("text = %q, want %q", res.Text, "new")
		}
		if res.Tree == tree {
			t.Error("tree must be re-derived from the winning text")
		}
	})

	t.Run("conflict can prefer structured", func(t *testing.T) {
		tree := mustParse(t, "old")
		res := bootBridge(t).Bootstrap("new", tree, "", PreferStructured)
		if res.Source != SourceStructured {
			t.Fatalf("source = %q, want structured", res.Source)
		}
		if res.Tree != tree || res.Text != "old" {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestBootstrapDerivationFailureIsNonFatal(t *testing.T) {
	t.Run("parse failure flags stale", func(t *testing.T) {
		boom := errors.New("boom")
		var kinds []ErrorKind
		ed := newMemEditor(t, "")
		b := New(ed, lines.Serialize,
			func(string) (*doctree.Node, error) { return nil, boom },
			WithErrorCallback(func(kind ErrorKind, _ string, _ error) { kinds = append(kinds, kind) }),
		)

		res := b.Bootstrap("text", nil, "", PreferText)
		if res.Source != SourceText {
			t.Errorf("source = %q, want text", res.Source)
		}
		if !res.Stale || res.Tree != nil || res.Text != "text" {
			t.Errorf("result = %+v", res)
		}
		if len(kinds) != 1 || kinds[0] != KindParseError {
			t.Errorf("callbacks = %v", kinds)
		}
	})

	t.Run("serialize failure keeps preferred side", func(t *testing.T) {
		boom := errors.New("boom")
		ed := newMemEditor(t, "")
		b := New(ed,
			func(*doctree.Node) (string, error) { return "", boom },
			lines.Parse,
		)

		tree := doctree.NewContainer("doc")
		res := b.Bootstrap("text", tree, "", PreferStructured)
		if res.Source != SourceStructured {
			t.Errorf("source = %q, want structured", res.Source)
		}
		if !res.Stale || res.Tree != tree {
			t.Errorf("result = %+v", res)
		}
	})
}
