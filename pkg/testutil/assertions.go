package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baloola/naucse/pkg/model"
	"github.com/baloola/naucse/pkg/sequence"
)

// AssertSymmetric verifies that prev and next are mirror images over the
// whole index: whenever next(M) is N, prev(N) must be M, and vice versa.
func AssertSymmetric(t *testing.T, ix *sequence.Index) {
	t.Helper()
	for _, m := range ix.Materials() {
		if n := ix.NextOf(m); n != nil {
			if back := ix.PrevOf(n); back != m {
				t.Errorf("next(%q) = %q but prev(%q) = %v", m.Title, n.Title, n.Title, titleOf(back))
			}
		}
		if p := ix.PrevOf(m); p != nil {
			if fwd := ix.NextOf(p); fwd != m {
				t.Errorf("prev(%q) = %q but next(%q) = %v", m.Title, p.Title, p.Title, titleOf(fwd))
			}
		}
	}
}

// AssertFullCoverage verifies that walking next links from the first
// material visits every lesson material exactly once, with no cycles.
func AssertFullCoverage(t *testing.T, ix *sequence.Index) {
	t.Helper()

	ordered := ix.Materials()
	if len(ordered) == 0 {
		return
	}

	seen := make(map[*model.Material]bool)
	var visited int
	for m := ordered[0]; m != nil; m = ix.NextOf(m) {
		if seen[m] {
			t.Fatalf("cycle: material %q visited twice", m.Title)
		}
		seen[m] = true
		visited++
		if visited > len(ordered) {
			t.Fatalf("walk exceeded material count %d", len(ordered))
		}
	}
	if visited != len(ordered) {
		t.Errorf("walk visited %d materials, index holds %d", visited, len(ordered))
	}
}

// AssertOrder verifies the index lists materials with exactly these titles
// in exactly this order.
func AssertOrder(t *testing.T, ix *sequence.Index, titles ...string) {
	t.Helper()
	got := ix.Materials()
	if len(got) != len(titles) {
		t.Fatalf("expected %d materials, got %d", len(titles), len(got))
	}
	for i, m := range got {
		if m.Title != titles[i] {
			t.Errorf("position %d: expected %q, got %q", i, titles[i], m.Title)
		}
	}
}

func titleOf(m *model.Material) string {
	if m == nil {
		return "<nil>"
	}
	return m.Title
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// WriteContentTree writes a content directory from a map of relative
// paths to file contents and returns the root directory.
func WriteContentTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		WriteFile(t, filepath.Join(dir, filepath.FromSlash(rel)), content)
	}
	return dir
}
