package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps the document in process memory.
// Useful for testing or when persistence should be disabled.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	saved  bool
	closed bool
}

// NewMemoryStore creates a memory store. A non-nil initial value is
// returned by Load as if it had been saved.
func NewMemoryStore(initial []byte) *MemoryStore {
	return &MemoryStore{data: slices.Clone(initial), saved: initial != nil}
}

// Load returns a copy of the last saved document.
func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if !s.saved {
		return nil, ErrNotFound
	}
	return slices.Clone(s.data), nil
}

// Save keeps a copy of data.
func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.data = slices.Clone(data)
	s.saved = true
	return nil
}

// Close marks the store unusable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) String() string {
	return "memory"
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
