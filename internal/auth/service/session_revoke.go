package service

import (
	"context"
	"errors"

	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/requestcontext"
)

// SignOut revokes the caller's refresh session. Signing out twice succeeds.
func (s *Service) SignOut(ctx context.Context, userID id.UserID, sessionID id.SessionID) error {
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "missing session")
	}
	now := requestcontext.Now(ctx)
	_, err := s.sessions.Execute(ctx, sessionID,
		func(rs *models.RefreshSession) error {
			if rs.UserID != userID {
				return sentinel.ErrNotFound
			}
			return nil
		},
		func(rs *models.RefreshSession) {
			rs.Revoke(now)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke session")
	}
	s.metrics.ObserveRevocations(1, false)
	s.audit.Log(ctx, audit.EventSessionRevoked,
		"user_id", userID.String(),
		"session_id", sessionID.String(),
	)
	return nil
}

// RevokeAllForUser ends every refresh session of the user. Used when a member
// is suspended so that no device can obtain fresh access tokens.
func (s *Service) RevokeAllForUser(ctx context.Context, userID id.UserID, reason string) (int, error) {
	n, err := s.sessions.RevokeAllForUser(ctx, userID, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke sessions")
	}
	s.metrics.ObserveRevocations(n, true)
	s.audit.Log(ctx, audit.EventSessionsRevoked,
		"user_id", userID.String(),
		"reason", reason,
		"count", n,
	)
	return n, nil
}

// IsSessionRevoked reports whether access tokens minted for the session must
// be refused. Unknown sessions count as revoked.
func (s *Service) IsSessionRevoked(ctx context.Context, sessionID id.SessionID) (bool, error) {
	rs, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return rs.IsRevoked(), nil
}
