package session

import (
	"context"
	"sync"
)

// MemoryRepository keeps Sessions in process memory. Sessions do not survive a
// restart; use it for tests and single-instance development.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*Session)}
}

func (m *MemoryRepository) Name() string { return "memory" }

func (m *MemoryRepository) Put(ctx context.Context, id string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[id] = s.Clone()
	return nil
}

func (m *MemoryRepository) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// NewMemoryStore returns a standalone in-memory Store for one browser context.
func NewMemoryStore() Store {
	return Bind(NewMemoryRepository(), "default")
}
