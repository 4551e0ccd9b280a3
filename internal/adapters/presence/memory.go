package presence

import (
	"context"
	"sync"

	"github.com/dkeye/Interview/internal/domain"
)

// MemoryStore keeps presence in process. Unknown users are created on write.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]domain.Presence
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[domain.UserID]domain.Presence)}
}

func (s *MemoryStore) UpdatePresence(_ context.Context, u domain.PresenceUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UserID] = u.Apply(s.users[u.UserID])
	return nil
}

// SetAvailable stands in for the profile toggle the user store exposes.
func (s *MemoryStore) SetAvailable(id domain.UserID, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.users[id]
	p.IsAvailableForMockInterview = available
	s.users[id] = p
}

func (s *MemoryStore) Get(id domain.UserID) (domain.Presence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.users[id]
	return p, ok
}

func (s *MemoryStore) Close() error { return nil }
