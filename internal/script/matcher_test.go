package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/treetext/internal/doctree"
	"github.com/dshills/treetext/internal/offsetmap"
)

// escapeScript skips a single backslash before every * or _ in the text.
const escapeScript = `
function match(leaf, text, from)
  local runs = {}
  local soff = 0
  local tat = from
  for i = 1, #leaf do
    local c = leaf:sub(i, i)
    if c == "*" or c == "_" then
      tat = tat + 1 -- skip the backslash the serializer emitted
    end
    runs[#runs + 1] = { structoff = soff, from = tat, to = tat + 1 }
    soff = soff + 1
    tat = tat + 1
  end
  return runs
end
`

func TestNewMatcherErrors(t *testing.T) {
	t.Run("parse error", func(t *testing.T) {
		if _, err := NewMatcher("function ("); err == nil {
			t.Error("expected a load error")
		}
	})

	t.Run("missing match", func(t *testing.T) {
		_, err := NewMatcher("x = 1")
		if !errors.Is(err, ErrNoMatchFunction) {
			t.Errorf("error = %v, want ErrNoMatchFunction", err)
		}
	})
}

func TestMatcherRuns(t *testing.T) {
	m, err := NewMatcher(escapeScript)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	runs, ok := m.Match("a*b", `a\*b`, 0)
	if !ok {
		t.Fatal("expected a match")
	}
	want := []offsetmap.Run{
		{StructOffset: 0, TextStart: 0, TextEnd: 1},
		{StructOffset: 1, TextStart: 2, TextEnd: 3},
		{StructOffset: 2, TextStart: 3, TextEnd: 4},
	}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, want %d: %+v", len(runs), len(want), runs)
	}
	for i, r := range want {
		if runs[i] != r {
			t.Errorf("run %d = %+v, want %+v", i, runs[i], r)
		}
	}
}

func TestMatcherFeedsOffsetMap(t *testing.T) {
	m, err := NewMatcher(escapeScript)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	tree := doctree.NewContainer("doc",
		doctree.NewContainer("paragraph", doctree.NewText("a*b")))
	om := offsetmap.Build(tree, `a\*b`, offsetmap.WithMatcher(m))

	if om.SkippedNodes != 0 {
		t.Errorf("SkippedNodes = %d, want 0", om.SkippedNodes)
	}
	if len(om.Segments) != 3 {
		t.Fatalf("got %d segments: %+v", len(om.Segments), om.Segments)
	}
	// The escaped "*" sits at text offset 2, structural position 2.
	if got, ok := om.Lookup(2); !ok || got != 2 {
		t.Errorf("Lookup(2) = %d, %v", got, ok)
	}
}

func TestMatcherScriptErrorDegrades(t *testing.T) {
	var warnings []string
	m, err := NewMatcher(
		`function match(leaf, text, from) error("nope") end`,
		WithWarn(func(msg string) { warnings = append(warnings, msg) }),
	)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	if _, ok := m.Match("x", "x", 0); ok {
		t.Error("failing script should not match")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "match() failed") {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestMatcherNilResult(t *testing.T) {
	m, err := NewMatcher(`function match(leaf, text, from) return nil end`)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	if _, ok := m.Match("x", "x", 0); ok {
		t.Error("nil result should not match")
	}
}

func TestMatcherMalformedRun(t *testing.T) {
	var warnings []string
	m, err := NewMatcher(
		`function match(leaf, text, from) return { { structoff = "bad" } } end`,
		WithWarn(func(msg string) { warnings = append(warnings, msg) }),
	)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	defer m.Close()

	if _, ok := m.Match("x", "x", 0); ok {
		t.Error("malformed run should not match")
	}
	if len(warnings) == 0 {
		t.Error("malformed run should warn")
	}
}

func TestMatcherSandbox(t *testing.T) {
	// Filesystem loaders are removed from the sandbox.
	if _, err := NewMatcher(`dofile("/etc/passwd")`); err == nil {
		t.Error("dofile should not be callable")
	}
}
