package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// exerciseBackend runs the shared contract every Backend must satisfy.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()

	// KV
	if v, err := b.Get("ns", "missing"); err != nil || v != "" {
		t.Fatalf("missing key: got (%q, %v)", v, err)
	}
	if err := b.Set("ns", "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := b.Get("ns", "k"); v != "v1" {
		t.Fatalf("get: got %q", v)
	}
	if err := b.Set("ns", "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if v, _ := b.Get("ns", "k"); v != "v2" {
		t.Fatalf("get after overwrite: got %q", v)
	}
	if v, _ := b.Get("other", "k"); v != "" {
		t.Fatalf("namespaces must not bleed: got %q", v)
	}
	if err := b.Delete("ns", "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if v, _ := b.Get("ns", "k"); v != "" {
		t.Fatalf("get after delete: got %q", v)
	}
	if err := b.Delete("ns", "never-existed"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	// Lists
	if items, err := b.GetList("ns", "lst"); err != nil || len(items) != 0 {
		t.Fatalf("empty list: got (%v, %v)", items, err)
	}
	for _, v := range []string{"a", "b", "c", "d"} {
		if err := b.Append("ns", "lst", v); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	items, err := b.GetList("ns", "lst")
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, items); diff != "" {
		t.Fatalf("list order (-want +got):\n%s", diff)
	}
	if n, _ := b.ListLength("ns", "lst"); n != 4 {
		t.Fatalf("list length: got %d", n)
	}
	if err := b.TrimList("ns", "lst", 2); err != nil {
		t.Fatalf("trim: %v", err)
	}
	items, _ = b.GetList("ns", "lst")
	if diff := cmp.Diff([]string{"c", "d"}, items); diff != "" {
		t.Fatalf("trim keeps the newest (-want +got):\n%s", diff)
	}
	if err := b.TrimList("ns", "lst", 10); err != nil {
		t.Fatalf("trim above size: %v", err)
	}
	if n, _ := b.ListLength("ns", "lst"); n != 2 {
		t.Fatalf("trim above size must not shrink: got %d", n)
	}
	if err := b.ClearList("ns", "lst"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, _ := b.ListLength("ns", "lst"); n != 0 {
		t.Fatalf("length after clear: got %d", n)
	}
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestFileBackend(t *testing.T) {
	exerciseBackend(t, NewFile(t.TempDir()))
}

func TestSQLiteBackend(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "romind.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	exerciseBackend(t, s)
}
