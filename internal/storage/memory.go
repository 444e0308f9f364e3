package storage

import (
	"context"
	"sync"
)

// MemoryProvider stores archive objects in-memory for tests and development.
type MemoryProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryProvider creates a new in-memory archive.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		data: make(map[string][]byte),
	}
}

// Save retains a copy of the content under objectName.
func (s *MemoryProvider) Save(_ context.Context, objectName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectName] = append([]byte(nil), data...)
	return nil
}

// Get returns the stored content, if any.
func (s *MemoryProvider) Get(objectName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[objectName]
	return data, ok
}

// Len reports how many objects are stored.
func (s *MemoryProvider) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
