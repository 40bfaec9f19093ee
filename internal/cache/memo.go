package cache

import "github.com/dshills/treetext/internal/doctree"

// DefaultMemoCapacity bounds the number of live memo entries.
const DefaultMemoCapacity = 8

// SerializeFunc converts a document tree into text.
type SerializeFunc func(tree *doctree.Node) (string, error)

// SerializeMemo caches serialize results keyed by tree identity, not
// content: two structurally equal trees have independent entries. The
// memo guarantees at most one serialize call per distinct tree pointer
// between retirements.
//
// Entries are retired explicitly (Retire) when the owner stops holding a
// tree, rather than relying on weak references; the bridge retires the
// previous tree's entry whenever its guard state advances.
type SerializeMemo struct {
	capacity int
	entries  map[*doctree.Node]string
}

// NewSerializeMemo creates a memo with the given capacity. Zero or
// negative capacity is treated as the default.
func NewSerializeMemo(capacity int) *SerializeMemo {
	if capacity <= 0 {
		capacity = DefaultMemoCapacity
	}
	return &SerializeMemo{
		capacity: capacity,
		entries:  make(map[*doctree.Node]string),
	}
}

// Text returns the serialized form of tree, invoking serialize at most
// once per tree pointer. Serialization failures are not memoized.
func (m *SerializeMemo) Text(tree *doctree.Node, serialize SerializeFunc) (string, error) {
	if text, ok := m.entries[tree]; ok {
		return text, nil
	}
	text, err := serialize(tree)
	if err != nil {
		return "", err
	}
	if len(m.entries) >= m.capacity {
		// Drop an arbitrary entry; retired trees should already be gone
		// and anything else is recomputable.
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[tree] = text
	return text, nil
}

// Retire drops the entry for tree, if any.
func (m *SerializeMemo) Retire(tree *doctree.Node) {
	delete(m.entries, tree)
}

// Len returns the number of live entries.
func (m *SerializeMemo) Len() int {
	return len(m.entries)
}
