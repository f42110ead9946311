package storage

import (
	"errors"
	"sync"
)

// MemoryArea is a thread-safe in-memory Area. Its lifetime is the lifetime of the
// value, which makes it the process-scoped equivalent of a tab's session storage.
type MemoryArea struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Area = (*MemoryArea)(nil)

// NewMemoryArea creates an empty in-memory area
func NewMemoryArea() *MemoryArea {
	return &MemoryArea{values: make(map[string]string)}
}

func (m *MemoryArea) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryArea) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryArea) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryArea) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
