// Package bucket holds sliding window counters for request limits.
package bucket

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/ratelimit/models"
)

// InMemory is a per-process sliding window store. Use the redis store when
// more than one server instance shares the limits.
type InMemory struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	clock   clockwork.Clock
}

type slidingWindow struct {
	hits   []time.Time
	window time.Duration
}

func (w *slidingWindow) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.hits) && !w.hits[i].After(cutoff) {
		i++
	}
	w.hits = w.hits[i:]
}

func NewInMemory(clock clockwork.Clock) *InMemory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InMemory{windows: make(map[string]*slidingWindow), clock: clock}
}

// Allow records one hit for key unless limit hits already fall inside window.
func (s *InMemory) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	w, ok := s.windows[key]
	if !ok {
		w = &slidingWindow{window: window}
		s.windows[key] = w
	}
	w.prune(now)

	if len(w.hits) >= limit {
		resetAt := now.Add(window)
		if len(w.hits) > 0 {
			resetAt = w.hits[0].Add(window)
		}
		return &models.Result{
			Limit:      limit,
			ResetAt:    resetAt,
			RetryAfter: models.RetryAfterSeconds(now, resetAt),
		}, nil
	}

	w.hits = append(w.hits, now)
	return &models.Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(w.hits),
		ResetAt:   w.hits[0].Add(window),
	}, nil
}

// Prune drops windows with no hits left. It returns how many were removed.
func (s *InMemory) Prune(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	removed := 0
	for key, w := range s.windows {
		w.prune(now)
		if len(w.hits) == 0 {
			delete(s.windows, key)
			removed++
		}
	}
	return removed, nil
}
