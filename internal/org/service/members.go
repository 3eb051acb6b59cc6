package service

import (
	"context"

	"github.com/google/uuid"

	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/requestcontext"
)

// CreateOrganization creates an organization owned by the caller and makes it
// the caller's active organization.
func (s *Service) CreateOrganization(ctx context.Context, cmd CreateOrganizationCommand) (*models.Organization, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	identity, err := s.users.FindIdentity(ctx, cmd.OwnerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	var org *models.Organization
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		o, err := models.NewOrganization(id.OrganizationID(uuid.New()), cmd.Name, now)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		if err := s.orgs.Create(txCtx, o); err != nil {
			return wrapOrganizationErr(err, "failed to create organization")
		}
		owner := models.NewOwnerMembership(id.MembershipID(uuid.New()), o.ID, cmd.OwnerID, identity.User.Email, now)
		if err := s.memberships.Create(txCtx, owner); err != nil {
			return wrapMembershipErr(err, "failed to create owner membership")
		}
		if err := s.orgs.SetActiveOrganization(txCtx, cmd.OwnerID, o.ID, now); err != nil {
			return wrapOrganizationErr(err, "failed to remember organization")
		}
		org = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementOrganizationsCreated()
	s.logger.InfoContext(ctx, "organization created",
		"organization_id", org.ID.String(),
		"user_id", cmd.OwnerID.String(),
	)
	return org, nil
}

// ListMembers returns every membership and invitation of the organization.
// Any active member may list.
func (s *Service) ListMembers(ctx context.Context, orgID id.OrganizationID, actor id.UserID) ([]*models.Membership, error) {
	if err := requireOrganizationID(orgID); err != nil {
		return nil, err
	}
	m, err := s.memberships.FindByUser(ctx, orgID, actor)
	if err != nil || !m.IsActive() {
		return nil, dErrors.New(dErrors.CodeForbidden, "not an active member of this organization")
	}
	members, err := s.memberships.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	return members, nil
}

// SuspendMember bans a member from the organization. Their refresh sessions
// are revoked by the banned-member sync.
func (s *Service) SuspendMember(ctx context.Context, orgID id.OrganizationID, membershipID id.MembershipID, actor id.UserID) (*models.Membership, error) {
	if err := requireOrganizationID(orgID); err != nil {
		return nil, err
	}

	var suspended *models.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.requireManager(txCtx, orgID, actor); err != nil {
			return err
		}
		m, err := s.memberships.FindByID(txCtx, orgID, membershipID)
		if err != nil {
			return wrapMembershipErr(err, "failed to load membership")
		}
		if m.UserID != nil && *m.UserID == actor {
			return dErrors.New(dErrors.CodeForbidden, "members cannot suspend themselves")
		}
		if err := m.Suspend(requestcontext.Now(txCtx)); err != nil {
			return dErrors.New(dErrors.CodeConflict, err.Error())
		}
		if err := s.memberships.Update(txCtx, m); err != nil {
			return wrapMembershipErr(err, "failed to suspend member")
		}
		suspended = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementMembersSuspended()
	attrs := []any{
		"organization_id", orgID.String(),
		"subject", membershipID.String(),
		"actor_id", actor.String(),
	}
	if suspended.UserID != nil {
		attrs = append(attrs, "user_id", suspended.UserID.String())
	}
	s.audit.Log(ctx, audit.EventMemberSuspended, attrs...)
	return suspended, nil
}
