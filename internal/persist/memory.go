package persist

import "sync"

// Memory is a map-backed Adapter. It backs tests and the in-memory-only
// session the store falls into when durable storage is unavailable.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// ReadRaw returns the value for key, or ErrNotFound.
func (m *Memory) ReadRaw(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// WriteRaw stores value under key.
func (m *Memory) WriteRaw(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// RemoveRaw deletes the value for key.
func (m *Memory) RemoveRaw(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
