package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestSave(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save([]byte("fake image data"), ".jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("expected .jpg suffix, got %q", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir, name))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "fake image data" {
		t.Error("saved data differs from input")
	}
}

func TestSaveUniqueNames(t *testing.T) {
	store := newTestStore(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		name, err := store.Save([]byte("x"), ".png")
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if seen[name] {
			t.Fatalf("duplicate filename %q", name)
		}
		seen[name] = true
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	name, _ := store.Save([]byte("x"), ".jpg")
	if err := store.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir, name)); !os.IsNotExist(err) {
		t.Error("expected file gone after Remove")
	}

	// Removing again is not an error.
	if err := store.Remove(name); err != nil {
		t.Errorf("Remove (second): %v", err)
	}
}

func TestRemoveRejectsPathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "../etc/passwd", "a/b.jpg", ".hidden"} {
		if err := store.Remove(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}
