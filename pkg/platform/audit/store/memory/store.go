package memory

import (
	"context"
	"sync"

	id "coldchain/pkg/domain"
	audit "coldchain/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process. Used when no broker is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByUser returns the events recorded for userID in insertion order.
func (s *InMemoryStore) ListByUser(userID id.UserID) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

// ListRecent returns up to limit of the newest events, newest first.
func (s *InMemoryStore) ListRecent(limit int) []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, 0, min(limit, len(s.events)))
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}
