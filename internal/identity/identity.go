package identity

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Provider supplies unique ids and timestamps to the order finalizer and catalogue.
type Provider interface {
	NewID() (string, error)
	Now() time.Time
}

// System issues UUIDv7 ids and UTC timestamps truncated to milliseconds. Now
// never goes backwards within a process, even if the wall clock does.
type System struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewSystem() *System {
	return &System{now: time.Now}
}

func (s *System) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *System) Now() time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}
