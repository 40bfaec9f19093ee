// Package bridge keeps a linear text buffer and a structured document
// tree continuously consistent.
//
// The bridge owns the diff/patch path between the two representations: a
// text edit is diffed against the tree's serialized form, re-parsed
// (incrementally when a collaborator supports it, through a recency cache
// otherwise), reduced to the minimal tree replacement range, and handed
// to the tree editor as a single tagged edit. Edits the bridge dispatches
// carry its origin tag so the reverse-direction observer can ignore them
// instead of feeding them back.
//
// All entry points are synchronous and single-writer: the host event loop
// serializes edits, and re-entrant invocations are absorbed by the guard
// state fast paths rather than locks. Failures come back as typed
// outcomes; the previous consistent state is always preserved.
package bridge
