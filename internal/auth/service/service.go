package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	authmetrics "coldchain/internal/auth/metrics"
	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/requestcontext"
)

const defaultRefreshTTL = 30 * 24 * time.Hour

// UserStore persists users. Duplicate emails surface as sentinel.ErrAlreadyUsed.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore persists refresh sessions. Execute validates and mutates a
// session atomically; a validate error leaves the stored session untouched.
type SessionStore interface {
	Create(ctx context.Context, session *models.RefreshSession) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.RefreshSession, error)
	FindByTokenHash(ctx context.Context, hash string) (*models.RefreshSession, error)
	Execute(ctx context.Context, sessionID id.SessionID, validate func(*models.RefreshSession) error, mutate func(*models.RefreshSession)) (*models.RefreshSession, error)
	RevokeAllForUser(ctx context.Context, userID id.UserID, now time.Time) (int, error)
}

// TokenIssuer mints access and refresh tokens.
type TokenIssuer interface {
	GenerateAccessToken(ctx context.Context, userID id.UserID, sessionID id.SessionID) (string, error)
	CreateRefreshToken() (string, error)
	TTL() time.Duration
}

// InvitationAcceptor links pending invitations to a freshly created user.
type InvitationAcceptor interface {
	AcceptPendingInvitations(ctx context.Context, userID id.UserID, email string) (int, error)
}

// SignInGuard throttles password guessing per email and client IP. Check
// returns a rate limited error while the pair is locked out.
type SignInGuard interface {
	Check(ctx context.Context, email, ip string) error
	RecordFailure(ctx context.Context, email, ip string) error
	Clear(ctx context.Context, email, ip string) error
}

type Service struct {
	users       UserStore
	sessions    SessionStore
	tokens      TokenIssuer
	invitations InvitationAcceptor
	guard       SignInGuard
	refreshTTL  time.Duration
	bcryptCost  int
	logger      *slog.Logger
	audit       *audit.Logger
	metrics     *authmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func WithMetrics(m *authmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithInvitationAcceptor enables invitation linking on sign-up.
func WithInvitationAcceptor(a InvitationAcceptor) Option {
	return func(s *Service) {
		s.invitations = a
	}
}

// WithSignInGuard enables lockout after repeated failed sign-ins.
func WithSignInGuard(g SignInGuard) Option {
	return func(s *Service) {
		s.guard = g
	}
}

func WithRefreshTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
	}
}

// WithBcryptCost overrides the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users UserStore, sessions SessionStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		refreshTTL: defaultRefreshTTL,
		bcryptCost: defaultBcryptCost,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// authFailure records a rejected authentication attempt without revealing
// which check failed to the caller.
func (s *Service) authFailure(ctx context.Context, reason string, attrs ...any) {
	s.metrics.IncrementAuthFailures(reason)
	args := append([]any{"reason", reason, "client_ip", requestcontext.ClientIP(ctx)}, attrs...)
	s.audit.Log(ctx, audit.EventAuthFailed, args...)
}

func wrapStoreErr(err error, resource, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, resource+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, resource+" already exists")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
