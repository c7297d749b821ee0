// Package files stores uploaded images on disk under random,
// collision-free names. The directory is served read-only by the
// static file server at /files/.
package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes uploads into a single flat directory.
type Store struct {
	Dir string
}

// New creates the upload directory if needed and returns a Store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save writes data to a new file named <uuid><ext> and returns the
// filename. UUIDs make concurrent saves collision-free without locking.
func (s *Store) Save(data []byte, ext string) (string, error) {
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing upload %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored file. Missing files are not an error, so
// cleanup after a replaced or deleted item is idempotent.
func (s *Store) Remove(name string) error {
	// Refuse anything that could escape the upload directory.
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid stored filename %q", name)
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload %s: %w", name, err)
	}
	return nil
}
