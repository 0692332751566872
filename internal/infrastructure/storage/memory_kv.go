package storage

import (
	"context"
	"sync"

	"github.com/jmzabaleta/Jenweb-M/internal/domain/repository"
)

type memoryKVStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryKVStore in-memory kalit-qiymat store (testlar va DB'siz rejim uchun)
func NewMemoryKVStore() repository.KVStore {
	return &memoryKVStore{
		values: make(map[string][]byte),
	}
}

// Get kalit bo'yicha qiymatni olish
func (m *memoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	if !exists {
		return nil, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set kalit bo'yicha qiymatni yozish
func (m *memoryKVStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}
