package bridge

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/treetext/internal/cache"
	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/textdiff"
)

// Bridge synchronizes a text buffer with a structured document through a
// TreeEditor. See the package documentation for the data flow.
type Bridge struct {
	editor      TreeEditor
	serialize   cache.SerializeFunc
	parse       cache.ParseFunc
	incremental IncrementalParseFunc
	normalize   NormalizeFunc
	onError     ErrorCallback
	onWarn      WarnCallback

	cacheSize  int
	parseCache *cache.ParseCache
	memo       *cache.SerializeMemo

	origin string
	wired  bool

	// Guard state: memo of the last successful ApplyText, reset only on
	// successful application. Purely a short-circuit, never observable.
	guardTree       *doctree.Node
	guardRaw        string
	guardNormalized string
	hasGuard        bool
}

// ApplyOptions tunes a single ApplyText call.
type ApplyOptions struct {
	// SkipHistory keeps the resulting tree edit out of the undo history.
	SkipHistory bool

	// Diff supplies a precomputed changed span; when nil the bridge
	// computes one.
	Diff *textdiff.Span

	// Normalized asserts the text is already in canonical form, skipping
	// normalization.
	Normalized bool
}

// New creates a Bridge bound to a tree editor and a serialize/parse pair.
func New(editor TreeEditor, serialize cache.SerializeFunc, parse cache.ParseFunc, opts ...Option) *Bridge {
	b := &Bridge{
		editor:    editor,
		serialize: serialize,
		parse:     parse,
		normalize: DefaultNormalize,
		cacheSize: -1,
		origin:    "bridge-" + uuid.NewString(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.parseCache = cache.NewParseCache(b.cacheSize)
	b.memo = cache.NewSerializeMemo(0)
	return b
}

// Origin returns the origin tag carried by bridge-dispatched edits.
func (b *Bridge) Origin() string {
	return b.origin
}

// IsBridgeChange reports whether an edit tag marks a bridge-originated
// edit, so the reverse-direction handler can skip it.
func (b *Bridge) IsBridgeChange(tag EditTag) bool {
	return tag.Origin == b.origin
}

// Wire marks the bridge as installed on its collaborators. Wiring twice
// is harmless but advisory-worthy: it usually means two sync paths are
// fighting over one document.
func (b *Bridge) Wire() {
	if b.wired {
		b.warn("bridge: already wired; duplicate wiring ignored")
		return
	}
	b.wired = true
}

// ApplyText reconciles the structured document with text. The zero
// ApplyOptions value records history and normalizes.
func (b *Bridge) ApplyText(text string, opts ApplyOptions) Outcome {
	if b.editor == nil {
		return b.fail(KindDetached, "no tree editor attached", nil)
	}
	tree := b.editor.Root()
	if tree == nil {
		return b.fail(KindDetached, "tree editor has no document", nil)
	}

	// Raw fast path: same tree, same raw input, nothing to do and no
	// normalization spent.
	if b.hasGuard && tree == b.guardTree && text == b.guardRaw {
		return Outcome{Status: StatusUnchanged}
	}

	normalized := text
	if !opts.Normalized {
		normalized = b.normalize(text)
	}
	if b.hasGuard && tree == b.guardTree && normalized == b.guardNormalized {
		return Outcome{Status: StatusUnchanged}
	}

	current, err := b.memo.Text(tree, b.serialize)
	if err != nil {
		return b.fail(KindSerializeError, "serialize current tree", err)
	}

	if current == normalized {
		b.setGuard(tree, text, normalized)
		return Outcome{Status: StatusUnchanged}
	}

	var span textdiff.Span
	if opts.Diff != nil {
		span = *opts.Diff
	} else {
		span = textdiff.Diff(current, normalized)
	}
	if span.SplitsCluster(current, normalized) {
		b.warn("bridge: diff boundary splits a grapheme cluster")
	}

	next, rng, hinted, outcome := b.nextTree(tree, current, normalized, span)
	if outcome != nil {
		return *outcome
	}
	if !hinted {
		var changed bool
		rng, changed = doctree.ChangedRange(tree, next)
		if !changed {
			b.setGuard(tree, text, normalized)
			return Outcome{Status: StatusUnchanged}
		}
	}

	tag := EditTag{Origin: b.origin, AddToHistory: !opts.SkipHistory}
	if err := b.editor.Replace(rng.From, rng.To, next.ChildSlice(rng.From, rng.ToB), tag); err != nil {
		return b.fail(KindDetached, "tree editor rejected the edit", err)
	}

	// Guard from the post-edit tree: the editing surface may have
	// applied further transformations beyond our computed tree.
	b.setGuard(b.editor.Root(), text, normalized)
	return Outcome{Status: StatusApplied}
}

// nextTree obtains the successor tree, preferring the incremental parse
// collaborator and falling back to the parse cache. hinted reports
// whether rng came from an explicit collaborator hint. A non-nil outcome
// aborts ApplyText.
func (b *Bridge) nextTree(tree *doctree.Node, current, normalized string, span textdiff.Span) (next *doctree.Node, rng doctree.Range, hinted bool, failed *Outcome) {
	if b.incremental != nil {
		res, err := b.incremental(ParseRequest{
			PrevTree: tree,
			PrevText: current,
			Text:     normalized,
			Diff:     span,
		})
		if err != nil {
			o := b.fail(KindParseError, "incremental parse", err)
			return nil, doctree.Range{}, false, &o
		}
		switch res.Kind {
		case FullTree:
			return res.Tree, doctree.Range{}, false, nil
		case RangedTree:
			return res.Tree, doctree.Range{From: res.From, To: res.To, ToB: res.ToB}, true, nil
		}
		// Fallback: continue to the parse cache.
	}
	next, err := b.parseCache.Get(normalized, b.parse)
	if err != nil {
		o := b.fail(KindParseError, "parse text", err)
		return nil, doctree.Range{}, false, &o
	}
	return next, doctree.Range{}, false, nil
}

// SyncToBuffer pushes the structured document's text into a text buffer
// as one minimal replacement: the buffer content is diffed against the
// serialized document and only the changed span is rewritten. When the
// two already agree no replacement is issued.
func (b *Bridge) SyncToBuffer(buf TextBuffer) Outcome {
	if buf == nil {
		return b.fail(KindDetached, "no text buffer attached", nil)
	}
	if b.editor == nil {
		return b.fail(KindDetached, "no tree editor attached", nil)
	}
	tree := b.editor.Root()
	if tree == nil {
		return b.fail(KindDetached, "tree editor has no document", nil)
	}

	want, err := b.memo.Text(tree, b.serialize)
	if err != nil {
		return b.fail(KindSerializeError, "serialize current tree", err)
	}
	have := buf.String()
	if have == want {
		b.setGuard(tree, want, want)
		return Outcome{Status: StatusUnchanged}
	}

	span := textdiff.Diff(have, want)
	if span.SplitsCluster(have, want) {
		b.warn("bridge: diff boundary splits a grapheme cluster")
	}
	if err := buf.ReplaceRange(span.Start, span.EndA, want[span.Start:span.EndB]); err != nil {
		return b.fail(KindDetached, "text buffer rejected the edit", err)
	}

	// The buffer now holds canonical text, so a later ApplyText of it
	// short-circuits on the guard.
	b.setGuard(tree, want, want)
	return Outcome{Status: StatusApplied}
}

// ExtractText serializes the current document, bounded by the serialize
// memo.
func (b *Bridge) ExtractText() (string, error) {
	if b.editor == nil {
		return "", fmt.Errorf("extract text: %s", KindDetached)
	}
	tree := b.editor.Root()
	if tree == nil {
		return "", fmt.Errorf("extract text: %s", KindDetached)
	}
	text, err := b.memo.Text(tree, b.serialize)
	if err != nil {
		b.reportError(KindSerializeError, "serialize current tree", err)
		return "", err
	}
	return text, nil
}

func (b *Bridge) setGuard(tree *doctree.Node, raw, normalized string) {
	if b.guardTree != nil && b.guardTree != tree {
		b.memo.Retire(b.guardTree)
	}
	b.guardTree = tree
	b.guardRaw = raw
	b.guardNormalized = normalized
	b.hasGuard = true
}

func (b *Bridge) fail(kind ErrorKind, msg string, cause error) Outcome {
	b.reportError(kind, msg, cause)
	err := cause
	if err == nil {
		err = fmt.Errorf("%s: %s", kind, msg)
	}
	return Outcome{Status: StatusFailed, Kind: kind, Err: err}
}

func (b *Bridge) reportError(kind ErrorKind, msg string, cause error) {
	if b.onError != nil {
		b.onError(kind, msg, cause)
	}
}

func (b *Bridge) warn(msg string) {
	if b.onWarn != nil {
		b.onWarn(msg)
	}
}
