package kvstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store for development and tests.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	blob, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	// return copy
	return append([]byte(nil), blob...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = append([]byte(nil), blob...)
	return nil
}
