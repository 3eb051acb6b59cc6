package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/requestcontext"
)

// tokens maps a bearer token to its claims; unknown tokens are invalid.
type tokens map[string]*JWTClaims

func (t tokens) ValidateToken(token string) (*JWTClaims, error) {
	if c, ok := t[token]; ok {
		return c, nil
	}
	return nil, errors.New("token is expired")
}

type sessionsFunc func(id.SessionID) (bool, error)

func (f sessionsFunc) IsSessionRevoked(_ context.Context, sessionID id.SessionID) (bool, error) {
	return f(sessionID)
}

type resolverFunc func(id.UserID) (id.OrganizationID, session.Role, error)

func (f resolverFunc) ActiveMembership(_ context.Context, userID id.UserID) (id.OrganizationID, session.Role, error) {
	return f(userID)
}

// recorder is the protected handler; it keeps the context it was called with.
type recorder struct {
	ctx context.Context
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.ctx = req.Context()
	w.WriteHeader(http.StatusNoContent)
}

func TestRequireAuth(t *testing.T) {
	userID := id.UserID(uuid.New())
	sessionID := id.SessionID(uuid.New())
	validator := tokens{
		"dispatcher-token": {UserID: userID.String(), SessionID: sessionID.String(), JTI: "j1"},
		"garbled-token":    {UserID: "TRK-100", SessionID: sessionID.String()},
	}
	live := sessionsFunc(func(id.SessionID) (bool, error) { return false, nil })
	revoked := sessionsFunc(func(got id.SessionID) (bool, error) { return got == sessionID, nil })
	broken := sessionsFunc(func(id.SessionID) (bool, error) { return false, errors.New("redis: connection refused") })

	tests := []struct {
		name     string
		header   string
		sessions SessionRevocationChecker
		status   int
		body     string
	}{
		{"valid token without session check", "Bearer dispatcher-token", nil, http.StatusNoContent, ""},
		{"valid token with live session", "Bearer dispatcher-token", live, http.StatusNoContent, ""},
		{"revoked session", "Bearer dispatcher-token", revoked, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Session has been revoked"}`},
		{"session store down", "Bearer dispatcher-token", broken, http.StatusInternalServerError,
			`{"error":"internal_error","error_description":"Failed to validate token"}`},
		{"expired token", "Bearer stale-token", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Invalid or expired token"}`},
		{"claims that are not ids", "Bearer garbled-token", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Invalid or expired token"}`},
		{"no header", "", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`},
		{"basic auth", "Basic ZGlzcGF0Y2g6cHc=", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`},
		{"lowercase scheme", "bearer dispatcher-token", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`},
		{"empty bearer", "Bearer  ", live, http.StatusUnauthorized,
			`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &recorder{}
			req := httptest.NewRequest(http.MethodGet, "/vehicles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			RequireAuth(validator, tt.sessions, slog.New(slog.DiscardHandler))(next).ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Nil(t, next.ctx)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
				assert.JSONEq(t, tt.body, w.Body.String())
				return
			}
			require.NotNil(t, next.ctx)
			assert.Equal(t, userID, requestcontext.UserID(next.ctx))
			assert.Equal(t, sessionID, requestcontext.SessionID(next.ctx))
		})
	}
}

func TestRequireMembership(t *testing.T) {
	userID := id.UserID(uuid.New())
	orgID := id.OrganizationID(uuid.New())

	serve := func(resolver MembershipResolver, authenticated bool) (*httptest.ResponseRecorder, *recorder) {
		next := &recorder{}
		req := httptest.NewRequest(http.MethodGet, "/fleet-sets", nil)
		if authenticated {
			req = req.WithContext(requestcontext.WithUserID(req.Context(), userID))
		}
		w := httptest.NewRecorder()
		RequireMembership(resolver, slog.New(slog.DiscardHandler))(next).ServeHTTP(w, req)
		return w, next
	}
	failing := func(err error) resolverFunc {
		return func(id.UserID) (id.OrganizationID, session.Role, error) { return id.OrganizationID{}, "", err }
	}

	t.Run("active membership populates context", func(t *testing.T) {
		w, next := serve(resolverFunc(func(got id.UserID) (id.OrganizationID, session.Role, error) {
			assert.Equal(t, userID, got)
			return orgID, session.RoleDispatcher, nil
		}), true)

		assert.Equal(t, http.StatusNoContent, w.Code)
		require.NotNil(t, next.ctx)
		assert.Equal(t, orgID, requestcontext.OrganizationID(next.ctx))
		assert.Equal(t, "dispatcher", requestcontext.Role(next.ctx))
	})

	tests := []struct {
		name   string
		err    error
		status int
		desc   string
	}{
		{"suspended or never invited", dErrors.New(dErrors.CodeForbidden, "no active organization membership"),
			http.StatusForbidden, "An active organization membership is required"},
		{"deleted user", dErrors.New(dErrors.CodeUnauthorized, "user not found"),
			http.StatusUnauthorized, "User no longer exists"},
		{"store failure", errors.New("connection reset"),
			http.StatusInternalServerError, "Failed to resolve membership"},
		{"unexpected domain error", dErrors.New(dErrors.CodeNotFound, "organization not found"),
			http.StatusInternalServerError, "Failed to resolve membership"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, next := serve(failing(tt.err), true)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.desc)
			assert.Nil(t, next.ctx)
		})
	}

	t.Run("unauthenticated request", func(t *testing.T) {
		w, next := serve(failing(errors.New("must not be called")), false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, next.ctx)
	})
}
