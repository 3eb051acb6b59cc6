// Package cleanup sweeps dead refresh sessions out of stores that do not
// expire them on their own.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/platform/periodic"
)

type SessionStore interface {
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// CleanupService deletes sessions that expired or were revoked.
type CleanupService struct {
	sessions SessionStore
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
}

type CleanupOption func(*CleanupService)

func WithCleanupInterval(interval time.Duration) CleanupOption {
	return func(s *CleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithCleanupLogger(logger *slog.Logger) CleanupOption {
	return func(s *CleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock clockwork.Clock) CleanupOption {
	return func(s *CleanupService) { s.clock = clock }
}

func New(sessions SessionStore, opts ...CleanupOption) (*CleanupService, error) {
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	s := &CleanupService{
		sessions: sessions,
		interval: 5 * time.Minute,
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *CleanupService) Start(ctx context.Context) error {
	return periodic.Every(ctx, s.clock, s.interval, s.logger, "session_cleanup", periodic.Discard(s.RunOnce))
}

// RunOnce returns the number of sessions removed.
func (s *CleanupService) RunOnce(ctx context.Context) (int, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("delete dead sessions: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "dead refresh sessions removed", "count", n)
	}
	return n, nil
}
