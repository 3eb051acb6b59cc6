// Package cleanup drops idle rate limit windows and stale sign-in lockouts.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/platform/periodic"
	"coldchain/internal/ratelimit/metrics"
)

type BucketStore interface {
	Prune(ctx context.Context) (int, error)
}

type LockoutStore interface {
	DeleteStale(ctx context.Context, now time.Time, window time.Duration) (int, error)
}

type Service struct {
	buckets       BucketStore
	lockouts      LockoutStore
	lockoutWindow time.Duration
	interval      time.Duration
	clock         clockwork.Clock
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

type Option func(*Service)

func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLockoutWindow sets how long a failure is remembered. Records idle for
// longer are deleted.
func WithLockoutWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.lockoutWindow = window
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(buckets BucketStore, lockouts LockoutStore, opts ...Option) (*Service, error) {
	if buckets == nil || lockouts == nil {
		return nil, errors.New("bucket and lockout stores are required")
	}
	s := &Service{
		buckets:       buckets,
		lockouts:      lockouts,
		lockoutWindow: 15 * time.Minute,
		interval:      time.Minute,
		clock:         clockwork.NewRealClock(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Start(ctx context.Context) error {
	return periodic.Every(ctx, s.clock, s.interval, s.logger, "rate_limit_cleanup", periodic.Discard(s.RunOnce))
}

// RunOnce prunes both stores and returns the number of removed entries.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	start := s.clock.Now()
	pruned, err := s.buckets.Prune(ctx)
	if err != nil {
		s.metrics.ObserveCleanup("error", 0, s.clock.Since(start).Seconds())
		return 0, fmt.Errorf("prune rate limit windows: %w", err)
	}
	stale, err := s.lockouts.DeleteStale(ctx, start, s.lockoutWindow)
	if err != nil {
		s.metrics.ObserveCleanup("error", pruned, s.clock.Since(start).Seconds())
		return pruned, fmt.Errorf("delete stale lockouts: %w", err)
	}
	removed := pruned + stale
	s.metrics.ObserveCleanup("ok", removed, s.clock.Since(start).Seconds())
	if removed > 0 {
		s.logger.DebugContext(ctx, "rate limit cleanup", "windows", pruned, "lockouts", stale)
	}
	return removed, nil
}
