// Package doctree provides the structured document model shared by the
// synchronization engine.
//
// A document is an ordered tree of nodes. Container nodes hold an ordered
// child list; leaf nodes hold inline text. Every node occupies a contiguous
// range in a document-wide integer address space: a container consumes one
// unit for its opening boundary and one for its closing boundary around its
// content, while a leaf consumes the length of its text. This is the same
// addressing scheme used by structured editors to express selections and
// replacement ranges.
//
// Trees are immutable by convention. The engine never mutates a node in
// place; it produces new nodes and replaces ranges. Because of that,
// pointer identity is meaningful: an unchanged subtree is the same *Node
// across edits, which downstream caches and anchors rely on.
package doctree
