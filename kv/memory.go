package kv

import (
	"context"
	"sync"
)

var _ Store = (*memory)(nil)

type memory struct {
	mu    *sync.RWMutex
	items map[string]string
}

// NewMemory returns a volatile in-process store. It is the default backend
// for the demo and the one the tests run against.
func NewMemory() Store {
	return &memory{
		mu:    &sync.RWMutex{},
		items: make(map[string]string),
	}
}

func (m *memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}

	return v, nil
}

func (m *memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value

	return nil
}

func (m *memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)

	return nil
}
