// ABOUTME: Tests for the recent image list
// ABOUTME: Covers ordering, trimming, and files that disappear

package recentimages

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEmptyWhenMissing(t *testing.T) {
	s := New(t.TempDir())
	if got := s.List(); len(got) != 0 {
		t.Errorf("expected empty list, got %v", got)
	}
}

func TestAddMovesToFront(t *testing.T) {
	dir := t.TempDir()
	a, b := touch(t, dir, "a.png"), touch(t, dir, "b.png")
	s := New(dir)

	for _, p := range []string{a, b, a} {
		if err := s.Add(p); err != nil {
			t.Fatal(err)
		}
	}

	got := New(dir).List()
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("expected [a b] after reload, got %v", got)
	}
}

func TestAddTrims(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	for i := 0; i < MaxRecent+2; i++ {
		if err := s.Add(touch(t, dir, fmt.Sprintf("%d.png", i))); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.List(); len(got) != MaxRecent {
		t.Errorf("expected %d paths, got %d", MaxRecent, len(got))
	}
}

func TestLoadDropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	keep, gone := touch(t, dir, "keep.png"), touch(t, dir, "gone.png")
	s := New(dir)
	s.Add(gone)
	s.Add(keep)
	os.Remove(gone)

	got, err := New(dir).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != keep {
		t.Errorf("expected only keep.png, got %v", got)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := New(dir).Load()
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty list, got %v %v", got, err)
	}
}
