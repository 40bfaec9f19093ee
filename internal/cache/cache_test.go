package cache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/treetext/internal/doctree"
)

// countingParser returns a ParseFunc that counts invocations.
func countingParser(calls *int) ParseFunc {
	return func(text string) (*doctree.Node, error) {
		*calls++
		return doctree.NewContainer("doc", doctree.NewText(text)), nil
	}
}

func TestParseCacheHitReturnsSameTree(t *testing.T) {
	calls := 0
	c := NewParseCache(DefaultParseCapacity)

	first, err := c.Get("hello", countingParser(&calls))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := c.Get("hello", countingParser(&calls))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 1 {
		t.Errorf("parse called %d times, want 1", calls)
	}
	if first != second {
		t.Error("cache hit must return the identical tree pointer")
	}
}

func TestParseCacheDisabled(t *testing.T) {
	calls := 0
	c := NewParseCache(0)

	for i := 0; i < 2; i++ {
		if _, err := c.Get("hello", countingParser(&calls)); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("disabled cache called parse %d times, want 2", calls)
	}
	if c.Len() != 0 {
		t.Errorf("disabled cache stored %d entries", c.Len())
	}
}

func TestParseCacheEvictsLeastRecentlyUsed(t *testing.T) {
	calls := 0
	c := NewParseCache(2)
	parse := countingParser(&calls)

	c.Get("a", parse)
	c.Get("b", parse)
	c.Get("a", parse) // touch "a" so "b" is now least recent
	c.Get("c", parse) // evicts "b"

	if _, ok := c.Lookup("b"); ok {
		t.Error(`"b" should have been evicted`)
	}
	if _, ok := c.Lookup("a"); !ok {
		t.Error(`"a" should survive: it was touched after "b"`)
	}

	calls = 0
	c.Get("b", parse)
	if calls != 1 {
		t.Errorf("evicted entry reparsed %d times, want 1", calls)
	}
}

func TestParseCacheFailureNotCached(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	c := NewParseCache(4)
	failing := func(string) (*doctree.Node, error) {
		calls++
		return nil, boom
	}

	for i := 0; i < 2; i++ {
		if _, err := c.Get("x", failing); !errors.Is(err, boom) {
			t.Fatalf("Get error = %v, want %v", err, boom)
		}
	}
	if calls != 2 {
		t.Errorf("failing parse called %d times, want 2", calls)
	}
}

func TestSerializeMemoOneCallPerReference(t *testing.T) {
	calls := 0
	serialize := func(tree *doctree.Node) (string, error) {
		calls++
		return tree.LeafText(), nil
	}

	m := NewSerializeMemo(0)
	a := doctree.NewContainer("doc", doctree.NewText("same"))
	b := doctree.NewContainer("doc", doctree.NewText("same"))

	for i := 0; i < 3; i++ {
		if _, err := m.Text(a, serialize); err != nil {
			t.Fatalf("Text: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("serialize called %d times for one reference, want 1", calls)
	}

	// Content-equal but distinct tree gets its own entry.
	if _, err := m.Text(b, serialize); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if calls != 2 {
		t.Errorf("serialize called %d times for two references, want 2", calls)
	}
}

func TestSerializeMemoRetire(t *testing.T) {
	calls := 0
	serialize := func(tree *doctree.Node) (string, error) {
		calls++
		return tree.LeafText(), nil
	}

	m := NewSerializeMemo(0)
	tree := doctree.NewContainer("doc", doctree.NewText("x"))

	m.Text(tree, serialize)
	m.Retire(tree)
	m.Text(tree, serialize)

	if calls != 2 {
		t.Errorf("serialize called %d times after retire, want 2", calls)
	}
	if m.Len() != 1 {
		t.Errorf("memo has %d entries, want 1", m.Len())
	}
}

func TestSerializeMemoBounded(t *testing.T) {
	m := NewSerializeMemo(4)
	serialize := func(tree *doctree.Node) (string, error) { return "", nil }

	for i := 0; i < 10; i++ {
		m.Text(doctree.NewText(fmt.Sprintf("%d", i)), serialize)
	}
	if m.Len() > 4 {
		t.Errorf("memo grew to %d entries, capacity 4", m.Len())
	}
}

func TestSerializeMemoFailureNotMemoized(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m := NewSerializeMemo(0)
	tree := doctree.NewText("x")
	failing := func(*doctree.Node) (string, error) {
		calls++
		return "", boom
	}

	for i := 0; i < 2; i++ {
		if _, err := m.Text(tree, failing); !errors.Is(err, boom) {
			t.Fatalf("Text error = %v, want %v", err, boom)
		}
	}
	if calls != 2 {
		t.Errorf("failing serialize called %d times, want 2", calls)
	}
}
