// Package artifact persists fetched extracts, one delimited-text file per
// location name.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes extract payloads under a single output directory.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at dir. The directory is
// created lazily on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Write persists the raw provider payload for one location and returns the
// file path. The bytes are provider-defined and stored untouched.
func (s *Store) Write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(s.dir, name+".csv")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write extract: %w", err)
	}
	return path, nil
}
