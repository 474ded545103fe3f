package store

import (
	"os"
	"path/filepath"

	apperrors "wgwatcher/pkg/errors"
)

// FileStore keeps the seen-set in a JSON file on disk
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the seen-set from disk. A missing or unreadable file and any
// malformed content yield an empty set so a broken state file cannot wedge
// the run.
func (f *FileStore) Load() (SeenSet, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return NewSeenSet(), nil
	}
	return decodeSeenIDs(data), nil
}

// Save writes the full set as a sorted JSON array, creating parent
// directories as needed
func (f *FileStore) Save(set SeenSet) error {
	data, err := encodeSeenIDs(set)
	if err != nil {
		return apperrors.NewStore(f.path, "failed to encode seen ids", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return apperrors.NewStore(f.path, "failed to create state directory", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return apperrors.NewStore(f.path, "failed to write state file", err)
	}
	return nil
}
