package history

import (
	"sync"
)

// Storage persists one serialized window per key. Load returns nil data and
// no error for a key that was never saved.
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
}

// MemoryStorage keeps windows in process memory.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Load returns a copy of the bytes saved under key.
func (m *MemoryStorage) Load(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Save replaces the bytes stored under key.
func (m *MemoryStorage) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

var (
	_ Storage = (*MemoryStorage)(nil)
	_ Storage = (*SQLiteStorage)(nil)
)
