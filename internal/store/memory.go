package store

import (
	"sort"
	"sync"
	"time"
)

// Memory is an in-memory store for testing.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]Script
	metadata map[string]string
	now      func() time.Time
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data:     make(map[string]Script),
		metadata: make(map[string]string),
		now:      time.Now,
	}
}

// Get retrieves a script by name.
func (m *Memory) Get(name string) (*Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.data[name]; ok {
		return &s, nil
	}
	return nil, nil
}

// Put stores a script by name.
func (m *Memory) Put(name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	s, ok := m.data[name]
	if !ok {
		s = Script{Name: name, Created: now}
	}
	s.Content = content
	s.Modified = now
	m.data[name] = s
	return nil
}

// Delete removes a script by name.
func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[name]; !ok {
		return ErrNotFound
	}
	delete(m.data, name)
	return nil
}

// List returns all scripts ordered by name.
func (m *Memory) List() ([]Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	scripts := make([]Script, 0, len(m.data))
	for _, s := range m.data {
		scripts = append(scripts, s)
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts, nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}

// GetMetadata retrieves a metadata value by key.
func (m *Memory) GetMetadata(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metadata[key], nil
}

// SetMetadata stores a metadata value by key.
func (m *Memory) SetMetadata(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[key] = value
	return nil
}
