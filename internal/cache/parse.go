package cache

import (
	"container/list"

	"github.com/dshills/treetext/internal/doctree"
)

// DefaultParseCapacity is the default number of parse results retained.
const DefaultParseCapacity = 8

// ParseFunc converts text into a document tree.
type ParseFunc func(text string) (*doctree.Node, error)

// ParseCache is a bounded text -> tree cache with move-to-front-on-hit
// recency. A hit returns the identical tree pointer produced for that text
// before, which is what downstream reference-identity optimizations rely
// on. Capacity 0 disables caching entirely.
type ParseCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used

	hits      uint64
	misses    uint64
	evictions uint64
}

type parseEntry struct {
	text string
	tree *doctree.Node
}

// NewParseCache creates a parse cache with the given capacity.
// A negative capacity is treated as the default.
func NewParseCache(capacity int) *ParseCache {
	if capacity < 0 {
		capacity = DefaultParseCapacity
	}
	return &ParseCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the tree for text, parsing on a miss. On a hit the entry is
// re-ranked most recently used and the previously produced tree pointer is
// returned. With capacity 0 the parser is always invoked and nothing is
// stored.
func (c *ParseCache) Get(text string, parse ParseFunc) (*doctree.Node, error) {
	if c.capacity == 0 {
		c.misses++
		return parse(text)
	}
	if el, ok := c.entries[text]; ok {
		c.hits++
		c.order.MoveToFront(el)
		return el.Value.(*parseEntry).tree, nil
	}
	c.misses++
	tree, err := parse(text)
	if err != nil {
		return nil, err
	}
	c.put(text, tree)
	return tree, nil
}

// Lookup returns the cached tree for text without parsing. A hit re-ranks
// the entry most recently used.
func (c *ParseCache) Lookup(text string) (*doctree.Node, bool) {
	el, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*parseEntry).tree, true
}

// Put stores a tree for text, evicting the least recently used entry when
// the cache is full. A no-op when the cache is disabled.
func (c *ParseCache) Put(text string, tree *doctree.Node) {
	if c.capacity == 0 {
		return
	}
	if el, ok := c.entries[text]; ok {
		el.Value.(*parseEntry).tree = tree
		c.order.MoveToFront(el)
		return
	}
	c.put(text, tree)
}

func (c *ParseCache) put(text string, tree *doctree.Node) {
	el := c.order.PushFront(&parseEntry{text: text, tree: tree})
	c.entries[text] = el
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*parseEntry).text)
		c.evictions++
	}
}

// Len returns the number of cached entries.
func (c *ParseCache) Len() int {
	return c.order.Len()
}

// Stats reports hit, miss, and eviction counts.
func (c *ParseCache) Stats() (hits, misses, evictions uint64) {
	return c.hits, c.misses, c.evictions
}
