package user

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"cafe-backoffice/internal/domain"
)

// Memory is an in-process Repository used by the memory store backend and tests.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	nextID int
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]domain.User)}
}

func (m *Memory) Create(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findByEmail(u.Email) != nil {
		return nil, domain.ErrAlreadyExists
	}
	m.nextID++
	u.ID = "user-" + strconv.Itoa(m.nextID)
	u.Email = strings.ToLower(u.Email)
	u.Roles = slices.Clone(u.Roles)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users[u.ID] = u
	return cloneUser(u), nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u := m.findByEmail(email); u != nil {
		return cloneUser(*u), nil
	}
	return nil, domain.ErrNotFound
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

// List returns users newest first, matching the Postgres ordering.
func (m *Memory) List(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *cloneUser(u))
	}
	slices.SortFunc(out, func(a, b domain.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (m *Memory) Update(_ context.Context, u domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[u.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if other := m.findByEmail(u.Email); other != nil && other.ID != u.ID {
		return nil, domain.ErrAlreadyExists
	}
	u.Email = strings.ToLower(u.Email)
	u.Roles = slices.Clone(u.Roles)
	u.CreatedAt = existing.CreatedAt
	m.users[u.ID] = u
	return cloneUser(u), nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) findByEmail(email string) *domain.User {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u
		}
	}
	return nil
}

func cloneUser(u domain.User) *domain.User {
	u.Roles = slices.Clone(u.Roles)
	return &u
}
