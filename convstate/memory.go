package convstate

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the process-local Store. Safe for concurrent use across
// simultaneously handled webhook events.
type MemoryStore struct {
	states map[string]State
	mutex  sync.Mutex
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]State),
		now:    time.Now,
	}
}

func (s *MemoryStore) Start(ctx context.Context, state State) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = s.now().Add(TTL)
	}
	s.states[stateKey(state.TenantID, state.UserID)] = state
	return nil
}

// Get expires lazily: a state past its deadline is deleted and reported
// absent, no background sweeper needed.
func (s *MemoryStore) Get(ctx context.Context, tenantID, userID string) (State, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := stateKey(tenantID, userID)
	state, ok := s.states[key]
	if !ok {
		return State{}, false, nil
	}
	if s.now().After(state.ExpiresAt) {
		delete(s.states, key)
		return State{}, false, nil
	}
	return state, true, nil
}

func (s *MemoryStore) Clear(ctx context.Context, tenantID, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.states, stateKey(tenantID, userID))
	return nil
}
