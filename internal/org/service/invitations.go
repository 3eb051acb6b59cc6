package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/requestcontext"
)

// Invite creates a pending membership for email. The invitee is linked when
// they sign up with that address.
func (s *Service) Invite(ctx context.Context, cmd InviteCommand) (*models.Membership, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var created *models.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.requireManager(txCtx, cmd.OrganizationID, cmd.InvitedBy); err != nil {
			return err
		}
		org, err := s.orgs.FindByID(txCtx, cmd.OrganizationID)
		if err != nil {
			return wrapOrganizationErr(err, "failed to load organization")
		}
		if !org.IsActive() {
			return dErrors.New(dErrors.CodeConflict, "organization is inactive")
		}

		existing, err := s.memberships.ListByOrganization(txCtx, cmd.OrganizationID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list memberships")
		}
		for _, m := range existing {
			if !strings.EqualFold(m.Email, cmd.Email) {
				continue
			}
			if m.UserID != nil {
				return dErrors.New(dErrors.CodeConflict, "user is already a member of this organization")
			}
			if m.IsPending() {
				return dErrors.New(dErrors.CodeConflict, "an invitation is already pending for this email")
			}
		}

		m, err := models.NewInvitation(id.MembershipID(uuid.New()), cmd.OrganizationID, cmd.Email, cmd.Role, cmd.InvitedBy, requestcontext.Now(txCtx))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		if err := s.memberships.Create(txCtx, m); err != nil {
			return wrapMembershipErr(err, "failed to create invitation")
		}
		created = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementInvitationsCreated()
	s.audit.Log(ctx, audit.EventInvitationCreated,
		"user_id", cmd.InvitedBy.String(),
		"organization_id", cmd.OrganizationID.String(),
		"email", created.Email,
		"role", string(created.Role),
	)
	return created, nil
}

// AcceptPendingInvitations links invitations sent to email to a newly created
// user. Per organization the most recent pending invitation wins and older
// ones are retired. Returns the number of memberships activated.
func (s *Service) AcceptPendingInvitations(ctx context.Context, userID id.UserID, email string) (int, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if userID.IsNil() || email == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "user ID and email are required")
	}

	var accepted []*models.Membership
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requestcontext.Now(txCtx)
		pending, err := s.memberships.ListPendingByEmail(txCtx, email)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invitations")
		}

		seen := make(map[id.OrganizationID]bool, len(pending))
		for _, m := range pending {
			if seen[m.OrganizationID] {
				m.Retire(now)
				if err := s.memberships.Update(txCtx, m); err != nil {
					return wrapMembershipErr(err, "failed to retire invitation")
				}
				continue
			}
			seen[m.OrganizationID] = true

			if err := m.Accept(userID, now); err != nil {
				return err
			}
			if err := s.memberships.Update(txCtx, m); err != nil {
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					continue
				}
				return wrapMembershipErr(err, "failed to accept invitation")
			}
			accepted = append(accepted, m)
		}

		if len(accepted) == 0 {
			return nil
		}
		if _, err := s.orgs.FindActiveOrganization(txCtx, userID); errors.Is(err, sentinel.ErrNotFound) {
			if err := s.orgs.SetActiveOrganization(txCtx, userID, accepted[0].OrganizationID, now); err != nil {
				return wrapOrganizationErr(err, "failed to remember organization")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.AddInvitationsAccepted(len(accepted))
	for _, m := range accepted {
		s.audit.Log(ctx, audit.EventInvitationAccepted,
			"user_id", userID.String(),
			"organization_id", m.OrganizationID.String(),
			"email", email,
		)
	}
	return len(accepted), nil
}
