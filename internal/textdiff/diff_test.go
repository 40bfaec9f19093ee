package textdiff

import "testing"

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want Span
	}{
		{"equal", "abc", "abc", Span{3, 3, 3}},
		{"both empty", "", "", Span{0, 0, 0}},
		{"insert into empty", "", "abc", Span{0, 0, 3}},
		{"delete everything", "abc", "", Span{0, 3, 0}},
		{"replace word", "hello world", "hello earth", Span{6, 11, 11}},
		{"middle line edit", "a\nb\nc", "a\nx\nc", Span{2, 3, 3}},
		{"append", "abc", "abcd", Span{3, 3, 4}},
		{"prepend", "abc", "xabc", Span{0, 0, 1}},
		{"delete middle", "abcdef", "abef", Span{2, 4, 2}},
		{"repeated run insert", "aaa", "aaaa", Span{3, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Diff(%q, %q) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestDiffInvariants checks the documented span invariants across a grid of
// string pairs, including pairs that share no content at all.
func TestDiffInvariants(t *testing.T) {
	inputs := []string{"", "a", "ab", "ba", "abc", "axc", "hello world",
		"hello earth", "a\nb\nc", "a\nx\nc", "aaaa", "aaab"}

	for _, a := range inputs {
		for _, b := range inputs {
			s := Diff(a, b)
			if s.Start < 0 || s.Start > s.EndA || s.EndA > len(a) {
				t.Fatalf("Diff(%q, %q): bad A bounds %+v", a, b, s)
			}
			if s.Start > s.EndB || s.EndB > len(b) {
				t.Fatalf("Diff(%q, %q): bad B bounds %+v", a, b, s)
			}
			if a[:s.Start] != b[:s.Start] {
				t.Fatalf("Diff(%q, %q): prefix mismatch %+v", a, b, s)
			}
			if a[s.EndA:] != b[s.EndB:] {
				t.Fatalf("Diff(%q, %q): suffix mismatch %+v", a, b, s)
			}
			if (a == b) != s.IsZero() {
				t.Fatalf("Diff(%q, %q): IsZero = %v for equality %v", a, b, s.IsZero(), a == b)
			}
		}
	}
}

func TestSplitsCluster(t *testing.T) {
	t.Run("ascii boundary", func(t *testing.T) {
		s := Diff("hello world", "hello earth")
		if s.SplitsCluster("hello world", "hello earth") {
			t.Error("ascii boundary should not split a cluster")
		}
	})

	t.Run("multibyte rune split", func(t *testing.T) {
		// Combining acute vs circumflex share their first UTF-8 byte, so
		// the byte scan stops mid-rune inside the cluster.
		a := "é" // e + combining acute
		b := "ê" // e + combining circumflex
		s := Diff(a, b)
		if !s.SplitsCluster(a, b) {
			t.Errorf("boundary %+v inside combining sequence should be flagged", s)
		}
	})

	t.Run("cluster-aligned edit", func(t *testing.T) {
		a := "é one"
		b := "é two"
		s := Diff(a, b)
		if s.SplitsCluster(a, b) {
			t.Errorf("boundary %+v at cluster edge should not be flagged", s)
		}
	})
}
