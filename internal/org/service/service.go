package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coldchain/contracts/session"
	orgmetrics "coldchain/internal/org/metrics"
	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/platform/tx"
)

// OrganizationStore persists organizations and each user's remembered active
// organization.
type OrganizationStore interface {
	Create(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, orgID id.OrganizationID) (*models.Organization, error)
	SetActiveOrganization(ctx context.Context, userID id.UserID, orgID id.OrganizationID, now time.Time) error
	FindActiveOrganization(ctx context.Context, userID id.UserID) (id.OrganizationID, error)
}

// MembershipStore persists memberships. Linking a user twice into one
// organization surfaces as sentinel.ErrAlreadyUsed.
type MembershipStore interface {
	Create(ctx context.Context, membership *models.Membership) error
	Update(ctx context.Context, membership *models.Membership) error
	FindByID(ctx context.Context, orgID id.OrganizationID, membershipID id.MembershipID) (*models.Membership, error)
	FindByUser(ctx context.Context, orgID id.OrganizationID, userID id.UserID) (*models.Membership, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Membership, error)
	ListByOrganization(ctx context.Context, orgID id.OrganizationID) ([]*models.Membership, error)
	ListPendingByEmail(ctx context.Context, email string) ([]*models.Membership, error)
}

// Identity is the user view the org module needs from auth.
type Identity struct {
	User               session.User
	IsPlatformOperator bool
}

// UserDirectory looks up users owned by the auth module.
type UserDirectory interface {
	FindIdentity(ctx context.Context, userID id.UserID) (*Identity, error)
}

// Service resolves sessions and manages organizations, memberships and
// invitations.
type Service struct {
	orgs        OrganizationStore
	memberships MembershipStore
	users       UserDirectory
	tx          tx.Runner
	logger      *slog.Logger
	audit       *audit.Logger
	metrics     *orgmetrics.Metrics
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

func WithMetrics(m *orgmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the unit-of-work runner. Defaults to an in-memory mutex.
func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(orgs OrganizationStore, memberships MembershipStore, users UserDirectory, opts ...Option) *Service {
	s := &Service{orgs: orgs, memberships: memberships, users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewMemoryRunner()
	}
	return s
}

func requireOrganizationID(orgID id.OrganizationID) error {
	if orgID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "organization ID required")
	}
	return nil
}

func wrapOrganizationErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "organization not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func wrapMembershipErr(err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "membership not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "user is already a member of this organization")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// requireManager loads the actor's membership in orgID and checks it may
// manage members.
func (s *Service) requireManager(ctx context.Context, orgID id.OrganizationID, actor id.UserID) (*models.Membership, error) {
	m, err := s.memberships.FindByUser(ctx, orgID, actor)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "not a member of this organization")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership")
	}
	if !m.IsActive() || !m.Role.CanManageMembers() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only owners and admins can manage members")
	}
	return m, nil
}
