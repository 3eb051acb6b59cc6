// Package authlockout slows down password guessing: after too many failed
// sign-ins for one email from one IP the pair is locked for a while.
package authlockout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/ratelimit/config"
	"coldchain/internal/ratelimit/metrics"
	"coldchain/internal/ratelimit/models"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/privacy"
	keyedsync "coldchain/pkg/platform/sync"
)

type Store interface {
	Get(ctx context.Context, key string) (*models.Lockout, error)
	RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (*models.Lockout, error)
	Lock(ctx context.Context, key string, until time.Time) error
	Clear(ctx context.Context, key string) error
}

type Service struct {
	store   Store
	locks   *keyedsync.ShardedMutex
	config  config.LockoutConfig
	clock   clockwork.Clock
	metrics *metrics.Metrics
	audit   *audit.Logger
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg config.LockoutConfig) Option {
	return func(s *Service) {
		if cfg.Attempts > 0 && cfg.Window > 0 && cfg.LockFor > 0 {
			s.config = cfg
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

func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("lockout store is required")
	}
	s := &Service{
		store:  store,
		locks:  keyedsync.NewShardedMutex(),
		config: config.DefaultConfig().Lockout,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Check returns a rate limited error while the pair is locked or has used up
// its attempts inside the window.
func (s *Service) Check(ctx context.Context, email, ip string) error {
	now := s.clock.Now()
	r, err := s.store.Get(ctx, models.LockoutKey(email, ip))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load sign-in lockout")
	}
	if r == nil {
		return nil
	}
	if r.IsLocked(now) {
		return tooManyAttempts(now, *r.LockedUntil)
	}
	if r.FailureCount >= s.config.Attempts && now.Sub(r.LastFailureAt) <= s.config.Window {
		return tooManyAttempts(now, r.LastFailureAt.Add(s.config.Window))
	}
	return nil
}

// RecordFailure counts a failed sign-in and locks the pair when the failure
// uses up the last attempt.
func (s *Service) RecordFailure(ctx context.Context, email, ip string) error {
	now := s.clock.Now()
	key := models.LockoutKey(email, ip)
	unlock := s.locks.Lock(key)
	defer unlock()

	r, err := s.store.RecordFailure(ctx, key, now, s.config.Window)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record sign-in failure")
	}
	s.metrics.IncrementSignInFailures()
	if r.FailureCount != s.config.Attempts {
		return nil
	}

	until := now.Add(s.config.LockFor)
	if err := s.store.Lock(ctx, key, until); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock sign-in")
	}
	s.metrics.IncrementSignInLockouts()
	s.audit.Log(ctx, audit.EventSignInLocked,
		"email", email,
		"subject", privacy.AnonymizeIP(ip),
		"failures", r.FailureCount,
		"locked_until", until.UTC().Format(time.RFC3339),
	)
	return nil
}

// Clear forgets the failures after a successful sign-in.
func (s *Service) Clear(ctx context.Context, email, ip string) error {
	if err := s.store.Clear(ctx, models.LockoutKey(email, ip)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear sign-in lockout")
	}
	return nil
}

func tooManyAttempts(now, until time.Time) error {
	wait := time.Duration(models.RetryAfterSeconds(now, until)) * time.Second
	return dErrors.Newf(dErrors.CodeRateLimited, "too many failed sign-in attempts; try again in %s", wait)
}
