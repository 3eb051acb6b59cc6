// Package bansync revokes the refresh sessions of suspended members.
//
// Suspension takes effect on the next request because membership is resolved
// per request. Revoking refresh sessions keeps a suspended user from minting
// new access tokens, so their remaining access ends when the current access
// token expires.
package bansync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/org/models"
	"coldchain/internal/platform/periodic"
	id "coldchain/pkg/domain"
	"coldchain/pkg/requestcontext"
)

const revokeReason = "member_suspended"

// SuspensionSource lists memberships suspended after a point in time, oldest
// suspension first.
type SuspensionSource interface {
	ListSuspendedSince(ctx context.Context, since time.Time) ([]*models.Membership, error)
}

// SessionRevoker revokes every refresh session of a user.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID id.UserID, reason string) (int, error)
}

// Syncer polls for new suspensions and revokes the affected users' sessions.
type Syncer struct {
	suspensions SuspensionSource
	revoker     SessionRevoker
	interval    time.Duration
	lookback    time.Duration
	clock       clockwork.Clock
	logger      *slog.Logger

	watermark time.Time
}

type Option func(*Syncer)

// WithInterval overrides the poll interval when greater than zero.
func WithInterval(interval time.Duration) Option {
	return func(s *Syncer) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithLookback sets how far before startup the first run looks. Suspensions
// made while the server was down are picked up within this window.
func WithLookback(lookback time.Duration) Option {
	return func(s *Syncer) {
		if lookback >= 0 {
			s.lookback = lookback
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Syncer) {
		s.clock = clock
	}
}

func New(suspensions SuspensionSource, revoker SessionRevoker, opts ...Option) (*Syncer, error) {
	if suspensions == nil || revoker == nil {
		return nil, fmt.Errorf("suspension source and session revoker are required")
	}
	s := &Syncer{
		suspensions: suspensions,
		revoker:     revoker,
		interval:    time.Minute,
		lookback:    time.Hour,
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.watermark = s.clock.Now().Add(-s.lookback)
	return s, nil
}

func (s *Syncer) Start(ctx context.Context) error {
	return periodic.Every(ctx, s.clock, s.interval, s.logger, "banned_member_sync", periodic.Discard(s.RunOnce))
}

// RunOnce revokes sessions for members suspended since the previous run and
// returns the number of users processed. The watermark only advances past
// suspensions that were handled, so a failed revocation is retried next run.
func (s *Syncer) RunOnce(ctx context.Context) (int, error) {
	suspended, err := s.suspensions.ListSuspendedSince(ctx, s.watermark)
	if err != nil {
		return 0, fmt.Errorf("list suspended members: %w", err)
	}

	ctx = requestcontext.WithNow(ctx, s.clock.Now())
	done := make(map[id.UserID]bool, len(suspended))
	processed := 0
	for _, m := range suspended {
		if m.UserID != nil && !done[*m.UserID] {
			n, err := s.revoker.RevokeAllForUser(ctx, *m.UserID, revokeReason)
			if err != nil {
				// Suspensions sharing this timestamp are retried too.
				if !s.watermark.Before(*m.SuspendedAt) {
					s.watermark = m.SuspendedAt.Add(-time.Nanosecond)
				}
				return processed, fmt.Errorf("revoke sessions for user %s: %w", m.UserID.String(), err)
			}
			done[*m.UserID] = true
			processed++
			s.logger.InfoContext(ctx, "revoked sessions of suspended member",
				"user_id", m.UserID.String(),
				"organization_id", m.OrganizationID.String(),
				"sessions", n,
			)
		}
		s.watermark = *m.SuspendedAt
	}
	return processed, nil
}
