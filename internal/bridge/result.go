package bridge

import (
	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/textdiff"
)

// Status classifies the outcome of a bridge operation.
type Status int

const (
	// StatusApplied means a tree edit was dispatched.
	StatusApplied Status = iota

	// StatusUnchanged means the representations already agreed; no edit
	// was dispatched. This is a no-op signal, not an error.
	StatusUnchanged

	// StatusFailed means the operation aborted and the previous
	// consistent state is untouched.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorKind names the failure taxonomy surfaced through outcomes and the
// error callback.
type ErrorKind string

const (
	// KindNone marks a non-failure outcome.
	KindNone ErrorKind = ""

	// KindParseError means the input text could not become a tree.
	KindParseError ErrorKind = "parse-error"

	// KindSerializeError means the tree could not become text.
	KindSerializeError ErrorKind = "serialize-error"

	// KindDetached means a collaborator is missing or rejected the edit.
	KindDetached ErrorKind = "detached"
)

// Outcome is the typed result of ApplyText. Errors never propagate as
// panics or returned errors past the bridge boundary; they arrive here
// and through the configured error callback.
type Outcome struct {
	Status Status
	Kind   ErrorKind
	Err    error
}

// OK reports whether the operation left the representations consistent
// (either by applying an edit or by finding none needed).
func (o Outcome) OK() bool {
	return o.Status != StatusFailed
}

// ParseRequest is the input handed to an incremental parse collaborator.
type ParseRequest struct {
	PrevTree *doctree.Node
	PrevText string
	Text     string
	Diff     textdiff.Span
}

// ResultKind tags the variants an incremental parser may produce.
type ResultKind int

const (
	// Fallback defers to the bridge's parse cache.
	Fallback ResultKind = iota

	// FullTree supplies a replacement tree; the bridge diffs it against
	// the previous tree to find the changed range.
	FullTree

	// RangedTree supplies a replacement tree plus an explicit
	// replacement-range hint, skipping structural diffing entirely.
	RangedTree
)

// ParseResult is the tagged union returned by incremental parsers.
// From and To index the old tree's children, ToB the new tree's; they
// are meaningful only when Kind is RangedTree.
type ParseResult struct {
	Kind ResultKind
	Tree *doctree.Node
	From int
	To   int
	ToB  int
}

// IncrementalParseFunc is the optional incremental parse collaborator.
type IncrementalParseFunc func(req ParseRequest) (ParseResult, error)
