package bridge

import "github.com/dshills/treetext/internal/doctree"

// Source records which side seeded the other when two persisted
// representations first meet.
type Source string

const (
	// SourceText means the text representation won and the tree was
	// derived from it.
	SourceText Source = "text"

	// SourceStructured means the tree won and the text was derived.
	SourceStructured Source = "structured"

	// SourceBothMatch means both sides already agreed canonically.
	SourceBothMatch Source = "both-match"

	// SourceEmpty means neither side had content and no initial text was
	// provided.
	SourceEmpty Source = "empty"

	// SourceInitial means both sides were empty and a provided initial
	// text seeded them.
	SourceInitial Source = "initial"
)

// Preference decides which side wins when both representations carry
// content that disagrees.
type Preference int

const (
	// PreferText lets the text representation win. The default.
	PreferText Preference = iota

	// PreferStructured lets the structured representation win.
	PreferStructured
)

// BootstrapResult is the outcome of reconciling two persisted
// representations at startup.
type BootstrapResult struct {
	// Source names which side seeded the other.
	Source Source

	// Text is the canonical text both sides should now hold.
	Text string

	// Tree is the canonical tree, nil only for SourceEmpty or when
	// derivation failed.
	Tree *doctree.Node

	// Stale reports a non-fatal derivation failure: the chosen source is
	// authoritative but the secondary representation could not be
	// re-derived and may be out of date. The system stays usable.
	Stale bool
}

// Bootstrap reconciles a persisted text and a persisted tree the first
// time they meet. A nil tree means the structured side has no content.
// When both sides are empty, initial seeds them (structured first, then
// the canonical text is re-derived from the tree, so both sides land in
// the same canonical form). Derivation failures are reported through the
// error callback and the Stale flag, never as a hard failure.
func (b *Bridge) Bootstrap(text string, tree *doctree.Node, initial string, prefer Preference) BootstrapResult {
	textEmpty := text == ""
	treeEmpty := tree == nil

	switch {
	case textEmpty && treeEmpty:
		if initial == "" {
			return BootstrapResult{Source: SourceEmpty}
		}
		return b.seedFromText(SourceInitial, b.normalize(initial))

	case treeEmpty:
		return b.seedFromText(SourceText, b.normalize(text))

	case textEmpty:
		return b.seedFromTree(SourceStructured, tree, "")
	}

	normalized := b.normalize(text)
	canonical, err := b.memo.Text(tree, b.serialize)
	if err != nil {
		b.reportError(KindSerializeError, "bootstrap: serialize structured side", err)
		if prefer == PreferStructured {
			// The preferred side cannot even produce text; keep it
			// authoritative and flag the text side as stale.
			return BootstrapResult{Source: SourceStructured, Tree: tree, Text: text, Stale: true}
		}
		return b.seedFromText(SourceText, normalized)
	}

	if canonical == normalized {
		return BootstrapResult{Source: SourceBothMatch, Text: canonical, Tree: tree}
	}
	if prefer == PreferStructured {
		return BootstrapResult{Source: SourceStructured, Text: canonical, Tree: tree}
	}
	return b.seedFromText(SourceText, normalized)
}

// seedFromText derives the tree from normalized text, then re-derives the
// canonical text from the tree.
func (b *Bridge) seedFromText(src Source, normalized string) BootstrapResult {
	tree, err := b.parseCache.Get(normalized, b.parse)
	if err != nil {
		b.reportError(KindParseError, "bootstrap: parse text side", err)
		return BootstrapResult{Source: src, Text: normalized, Stale: true}
	}
	return b.seedFromTree(src, tree, normalized)
}

// seedFromTree derives the canonical text from tree. fallback is used,
// flagged stale, when serialization fails.
func (b *Bridge) seedFromTree(src Source, tree *doctree.Node, fallback string) BootstrapResult {
	canonical, err := b.memo.Text(tree, b.serialize)
	if err != nil {
		b.reportError(KindSerializeError, "bootstrap: serialize derived tree", err)
		return BootstrapResult{Source: src, Tree: tree, Text: fallback, Stale: true}
	}
	return BootstrapResult{Source: src, Tree: tree, Text: canonical}
}
