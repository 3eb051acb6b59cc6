// Package lockout stores failed sign-in counters.
package lockout

import (
	"context"
	"sync"
	"time"

	"coldchain/internal/ratelimit/models"
)

type InMemory struct {
	mu      sync.Mutex
	records map[string]*models.Lockout
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]*models.Lockout)}
}

// Get returns a copy of the record for key, or nil.
func (s *InMemory) Get(_ context.Context, key string) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	out := *r
	return &out, nil
}

// RecordFailure counts a failure at now. Failures older than window are
// forgotten first.
func (s *InMemory) RecordFailure(_ context.Context, key string, now time.Time, window time.Duration) (*models.Lockout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok || now.Sub(r.LastFailureAt) > window {
		r = &models.Lockout{Key: key}
		s.records[key] = r
	}
	r.FailureCount++
	r.LastFailureAt = now
	out := *r
	return &out, nil
}

func (s *InMemory) Lock(_ context.Context, key string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok {
		r = &models.Lockout{Key: key, LastFailureAt: until}
		s.records[key] = r
	}
	r.LockedUntil = &until
	return nil
}

func (s *InMemory) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// DeleteStale removes records that are neither locked nor recently failed.
func (s *InMemory) DeleteStale(_ context.Context, now time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, r := range s.records {
		if r.IsLocked(now) || now.Sub(r.LastFailureAt) <= window {
			continue
		}
		delete(s.records, key)
		removed++
	}
	return removed, nil
}
