package store

import (
	"context"
	"os"
)

// FileStore keeps the document in a single local file.
// Each call opens, reads or writes, and closes the file; nothing is held
// open between calls.
type FileStore struct {
	path string
}

// NewFileStore creates a file store at path, or at [DefaultPath] when path
// is empty. The file is not touched until the first Load or Save.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: path}
}

// Load reads the whole file.
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save replaces the file content, creating the file if needed.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	return os.WriteFile(s.path, data, 0644)
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// Path returns the document file path.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) String() string {
	return "file:" + s.path
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
