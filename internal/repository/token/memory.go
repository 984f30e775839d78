package token

import (
	"context"
	"sync"

	"cafe-backoffice/internal/domain"
)

// Memory keeps tokens in process; they do not survive a restart.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]Token)}
}

func (m *Memory) Create(_ context.Context, t Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tokens[t.Token]; exists {
		return domain.ErrAlreadyExists
	}
	m.tokens[t.Token] = t
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tokens, token)
	return nil
}
