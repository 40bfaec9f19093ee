// Package reconcile aligns an externally owned replicated element list
// (typically CRDT-backed) with a freshly computed document tree while
// disturbing as few elements as possible.
//
// Identity is the point: collaborative cursor anchors attach to element
// and leaf identities, so reconciliation trims the common prefix and
// suffix of the two sequences and only touches the unmatched middle.
// Elements in the middle with a matching kind are patched in place with a
// minimal leaf-text edit; only kind mismatches are replaced outright.
// A wholesale rebuild would invalidate every anchor on every edit.
package reconcile
