package doctree

import "errors"

// Errors returned by document decoding.
var (
	// ErrInvalidDocument indicates JSON that does not describe a node tree.
	ErrInvalidDocument = errors.New("invalid document JSON")

	// ErrMissingType indicates a node object without a type tag.
	ErrMissingType = errors.New("node is missing a type")
)
