package settings

import (
	"context"
	"sync"
)

// MemoryStore keeps settings in memory only. Useful for tests and for
// running without touching the environment.
type MemoryStore struct {
	mu sync.RWMutex
	s  Settings
}

// NewMemoryStore returns a MemoryStore holding initial.
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{s: initial}
}

// Load returns the stored settings.
func (m *MemoryStore) Load(ctx context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.s
	s.FilterMode = ParseFilterMode(string(s.FilterMode))
	return s, nil
}

// Save replaces the stored settings.
func (m *MemoryStore) Save(ctx context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = s.Normalize()
	return nil
}

// Clear resets the stored settings.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Settings{}
	return nil
}
