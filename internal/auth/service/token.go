package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"coldchain/internal/auth/device"
	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/requestcontext"
)

var newUUID = uuid.New

// SignIn verifies email and password and opens a refresh session for the
// calling device. Unknown emails and wrong passwords are indistinguishable.
func (s *Service) SignIn(ctx context.Context, emailAddr, password string) (*models.TokenResult, error) {
	start := time.Now()
	addr := strings.ToLower(strings.TrimSpace(emailAddr))
	if addr == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email and password are required")
	}
	ip := requestcontext.ClientIP(ctx)
	if s.guard != nil {
		if err := s.guard.Check(ctx, addr, ip); err != nil {
			s.authFailure(ctx, "locked_out")
			return nil, err
		}
	}

	user, err := s.users.FindByEmail(ctx, addr)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.authFailure(ctx, "unknown_email")
			s.recordSignInFailure(ctx, addr, ip)
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.authFailure(ctx, "wrong_password", "user_id", user.ID.String())
		s.recordSignInFailure(ctx, addr, ip)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	result, err := s.openSession(ctx, user.ID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if s.guard != nil {
		if err := s.guard.Clear(ctx, addr, ip); err != nil {
			s.logger.WarnContext(ctx, "failed to clear sign-in failures", "error", err)
		}
	}
	s.metrics.ObserveTokenRequest("password", start)
	return result, nil
}

// recordSignInFailure counts the failure towards lockout. Guard errors are
// logged; the caller still gets the generic credentials error.
func (s *Service) recordSignInFailure(ctx context.Context, addr, ip string) {
	if s.guard == nil {
		return
	}
	if err := s.guard.RecordFailure(ctx, addr, ip); err != nil {
		s.logger.WarnContext(ctx, "failed to record sign-in failure", "error", err)
	}
}

// Refresh exchanges a refresh token for a new token pair. The presented token
// is rotated out; replaying it afterwards fails.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenResult, error) {
	start := time.Now()
	if refreshToken == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "refresh_token is required")
	}
	now := requestcontext.Now(ctx)

	current, err := s.sessions.FindByTokenHash(ctx, models.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.authFailure(ctx, "unknown_refresh_token")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load refresh session")
	}

	next, err := s.tokens.CreateRefreshToken()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create refresh token")
	}
	presented := current.TokenHash
	rotated, err := s.sessions.Execute(ctx, current.ID,
		func(rs *models.RefreshSession) error {
			if rs.TokenHash != presented {
				return sentinel.ErrAlreadyUsed
			}
			if !rs.IsActive(now) {
				return sentinel.ErrInvalidState
			}
			return nil
		},
		func(rs *models.RefreshSession) {
			rs.Rotate(models.HashToken(next), now, s.refreshTTL)
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound), errors.Is(err, sentinel.ErrInvalidState), errors.Is(err, sentinel.ErrAlreadyUsed):
			s.authFailure(ctx, "refresh_rejected", "session_id", current.ID.String())
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rotate refresh token")
	}

	access, err := s.tokens.GenerateAccessToken(ctx, rotated.UserID, rotated.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access token")
	}
	s.audit.Log(ctx, audit.EventTokenRefreshed,
		"user_id", rotated.UserID.String(),
		"session_id", rotated.ID.String(),
	)
	s.metrics.ObserveTokenRequest("refresh_token", start)
	return &models.TokenResult{
		AccessToken:  access,
		RefreshToken: next,
		ExpiresIn:    s.tokens.TTL(),
		UserID:       rotated.UserID,
		SessionID:    rotated.ID,
	}, nil
}

func (s *Service) openSession(ctx context.Context, userID id.UserID, now time.Time) (*models.TokenResult, error) {
	refresh, err := s.tokens.CreateRefreshToken()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create refresh token")
	}
	session := &models.RefreshSession{
		ID:          id.SessionID(newUUID()),
		UserID:      userID,
		TokenHash:   models.HashToken(refresh),
		DeviceLabel: device.Label(requestcontext.UserAgent(ctx)),
		ClientIP:    requestcontext.ClientIP(ctx),
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.refreshTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}

	access, err := s.tokens.GenerateAccessToken(ctx, userID, session.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate access token")
	}
	s.audit.Log(ctx, audit.EventSessionCreated,
		"user_id", userID.String(),
		"session_id", session.ID.String(),
		"device", session.DeviceLabel,
	)
	return &models.TokenResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.TTL(),
		UserID:       userID,
		SessionID:    session.ID,
	}, nil
}
