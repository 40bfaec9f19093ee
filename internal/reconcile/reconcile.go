package reconcile

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/textdiff"
)

// Element is one node of the replicated list. An element has a kind tag
// and at most one text leaf whose content can be edited in place without
// replacing the element.
type Element interface {
	// Kind returns the element's type tag.
	Kind() string

	// LeafText returns the full text of the element's leaf, or "" when
	// the element has none.
	LeafText() string

	// PatchLeaf replaces leaf text [from, to) with s, preserving the
	// element and leaf identity.
	PatchLeaf(from, to int, s string) error
}

// NewElement describes an element to construct during reconciliation.
type NewElement struct {
	Kind string
	Text string
}

// List is the replicated ordered list collaborator. All mutations made
// during reconciliation happen inside one Transact call so observers
// never see a partially reconciled state.
type List interface {
	Len() int
	Element(i int) Element
	Insert(i int, els []NewElement) error
	Delete(i, n int) error

	// Transact runs fn as one atomic transaction tagged with origin, so
	// the reverse-direction observer can recognize and skip it.
	Transact(origin string, fn func() error) error
}

// Reconciler reconciles a List against computed tree children.
type Reconciler struct {
	origin string
	kinds  map[string]bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithOrigin overrides the generated transaction origin tag.
func WithOrigin(origin string) Option {
	return func(r *Reconciler) { r.origin = origin }
}

// WithKinds restricts the element kinds the reconciler will touch. An
// existing element outside the set makes Reconcile signal fallback.
// Without this option the accepted set is derived from the target
// children on each call.
func WithKinds(kinds ...string) Option {
	return func(r *Reconciler) {
		r.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			r.kinds[k] = true
		}
	}
}

// New creates a Reconciler with a unique transaction origin.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{origin: "reconcile-" + uuid.NewString()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Origin returns the origin tag attached to reconciliation transactions.
// Observers compare it to decide whether a list change is self-inflicted.
func (r *Reconciler) Origin() string {
	return r.origin
}

// Reconcile brings list to match children. It returns false (with no
// mutations performed) when the list holds elements of unexpected kinds;
// the caller should then fall back to wholesale replacement. On success
// every element outside the changed middle keeps its identity.
func (r *Reconciler) Reconcile(list List, children []*doctree.Node) (bool, error) {
	allowed := r.kinds
	if allowed == nil {
		allowed = make(map[string]bool, len(children))
		for _, c := range children {
			allowed[c.Type] = true
		}
	}
	oldN := list.Len()
	for i := 0; i < oldN; i++ {
		if !allowed[list.Element(i).Kind()] {
			return false, nil
		}
	}

	newN := len(children)
	limit := min(oldN, newN)

	prefix := 0
	for prefix < limit && elementMatches(list.Element(prefix), children[prefix]) {
		prefix++
	}
	suffix := 0
	for suffix < limit-prefix &&
		elementMatches(list.Element(oldN-1-suffix), children[newN-1-suffix]) {
		suffix++
	}

	oldMid := oldN - suffix - prefix
	newMid := newN - suffix - prefix
	if oldMid == 0 && newMid == 0 {
		return true, nil
	}

	err := list.Transact(r.origin, func() error {
		overlap := min(oldMid, newMid)
		for k := 0; k < overlap; k++ {
			at := prefix + k
			el := list.Element(at)
			child := children[at]
			if el.Kind() == child.Type {
				if err := patchLeaf(el, child.LeafText()); err != nil {
					return fmt.Errorf("patch element %d: %w", at, err)
				}
				continue
			}
			if err := list.Delete(at, 1); err != nil {
				return fmt.Errorf("replace element %d: %w", at, err)
			}
			repl := []NewElement{{Kind: child.Type, Text: child.LeafText()}}
			if err := list.Insert(at, repl); err != nil {
				return fmt.Errorf("replace element %d: %w", at, err)
			}
		}
		if oldMid > newMid {
			if err := list.Delete(prefix+newMid, oldMid-newMid); err != nil {
				return fmt.Errorf("delete extra elements: %w", err)
			}
		}
		if newMid > oldMid {
			extra := make([]NewElement, 0, newMid-oldMid)
			for _, c := range children[prefix+oldMid : prefix+newMid] {
				extra = append(extra, NewElement{Kind: c.Type, Text: c.LeafText()})
			}
			if err := list.Insert(prefix+oldMid, extra); err != nil {
				return fmt.Errorf("insert new elements: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// elementMatches is the prefix/suffix equality test: same kind and same
// full leaf text.
func elementMatches(el Element, child *doctree.Node) bool {
	return el.Kind() == child.Type && el.LeafText() == child.LeafText()
}

// patchLeaf applies the minimal delete+insert that turns the element's
// leaf text into want, using the same prefix/suffix trimming as the text
// diff engine.
func patchLeaf(el Element, want string) error {
	have := el.LeafText()
	span := textdiff.Diff(have, want)
	if span.IsZero() {
		return nil
	}
	return el.PatchLeaf(span.Start, span.EndA, want[span.Start:span.EndB])
}
