// Package auth authenticates API requests. RequireAuth turns a bearer access
// token into a user and session; RequireMembership adds the organization and
// role the user currently acts in.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// SessionRevocationChecker reports whether the refresh session behind a token
// was revoked by sign-out or a suspension sync.
type SessionRevocationChecker interface {
	IsSessionRevoked(ctx context.Context, sessionID id.SessionID) (bool, error)
}

// JWTClaims is the validator's view of an access token.
type JWTClaims struct {
	UserID    string
	SessionID string
	JTI       string
}

// MembershipResolver returns the organization and role the user acts in.
type MembershipResolver interface {
	ActiveMembership(ctx context.Context, userID id.UserID) (id.OrganizationID, session.Role, error)
}

var (
	errMissingToken = dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header")
	errBadToken     = dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token")
	errRevoked      = dErrors.New(dErrors.CodeUnauthorized, "Session has been revoked")
	errNoUser       = dErrors.New(dErrors.CodeUnauthorized, "Authentication required")
	errGone         = dErrors.New(dErrors.CodeUnauthorized, "User no longer exists")
	errNoMember     = dErrors.New(dErrors.CodeForbidden, "An active organization membership is required")
)

// RequireAuth accepts a request only with a valid bearer token whose session
// is still live. The session check runs on every request so a sign-out takes
// effect before the token expires. A nil checker skips it.
func RequireAuth(validator JWTValidator, sessions SessionRevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID, sessionID, err := authenticate(ctx, r.Header.Get("Authorization"), validator, sessions)
			if err != nil {
				deny(w, ctx, logger, "request rejected by authentication", err)
				return
			}
			ctx = requestcontext.WithUserID(ctx, userID)
			ctx = requestcontext.WithSessionID(ctx, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, header string, validator JWTValidator, sessions SessionRevocationChecker) (id.UserID, id.SessionID, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return id.UserID{}, id.SessionID{}, errMissingToken
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		return id.UserID{}, id.SessionID{}, dErrors.WrapAs(err, dErrors.CodeUnauthorized, errBadToken.Error())
	}
	userID, sessionID, err := claimIDs(claims)
	if err != nil {
		return id.UserID{}, id.SessionID{}, dErrors.WrapAs(err, dErrors.CodeUnauthorized, errBadToken.Error())
	}
	if sessions == nil {
		return userID, sessionID, nil
	}
	revoked, err := sessions.IsSessionRevoked(ctx, sessionID)
	if err != nil {
		return id.UserID{}, id.SessionID{}, dErrors.WrapAs(err, dErrors.CodeInternal, "Failed to validate token")
	}
	if revoked {
		return id.UserID{}, id.SessionID{}, errRevoked
	}
	return userID, sessionID, nil
}

func claimIDs(claims *JWTClaims) (id.UserID, id.SessionID, error) {
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return id.UserID{}, id.SessionID{}, fmt.Errorf("user_id claim: %w", err)
	}
	sessionID, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return id.UserID{}, id.SessionID{}, fmt.Errorf("session_id claim: %w", err)
	}
	return userID, sessionID, nil
}

// RequireMembership runs after RequireAuth and resolves the membership on
// every request, so a suspended member loses access on the next call.
func RequireMembership(resolver MembershipResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := requestcontext.UserID(ctx)
			if userID.IsNil() {
				deny(w, ctx, logger, "membership check without an authenticated user", errNoUser)
				return
			}
			orgID, role, err := resolver.ActiveMembership(ctx, userID)
			if err != nil {
				switch dErrors.CodeOf(err) {
				case dErrors.CodeUnauthorized:
					err = errGone
				case dErrors.CodeForbidden:
					err = errNoMember
				default:
					err = dErrors.WrapAs(err, dErrors.CodeInternal, "Failed to resolve membership")
				}
				deny(w, ctx, logger, "request rejected by membership check", err, "user_id", userID.String())
				return
			}
			ctx = requestcontext.WithMembership(ctx, orgID, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// deny logs err at a level matching its code and writes it.
func deny(w http.ResponseWriter, ctx context.Context, logger *slog.Logger, msg string, err error, kv ...any) {
	attrs := append([]any{"error", err, "request_id", requestcontext.RequestID(ctx)}, kv...)
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		logger.ErrorContext(ctx, msg, attrs...)
	} else {
		logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
