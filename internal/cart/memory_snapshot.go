package cart

import (
	"context"
	"sync"
)

// MemorySnapshotStore holds the snapshot in process memory. It backs the
// "memory" store driver and doubles as the test fake for the storage port.
type MemorySnapshotStore struct {
	mu      sync.Mutex
	payload []byte
	saved   bool
}

// NewMemorySnapshotStore returns an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Seed pre-populates the store, as if a snapshot had been persisted earlier.
func (s *MemorySnapshotStore) Seed(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = append([]byte(nil), payload...)
	s.saved = true
}

func (s *MemorySnapshotStore) Save(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = append([]byte(nil), payload...)
	s.saved = true
	return nil
}

func (s *MemorySnapshotStore) Load(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return nil, ErrSnapshotNotFound
	}
	return append([]byte(nil), s.payload...), nil
}
