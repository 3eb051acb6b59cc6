package service

import (
	"context"
	"errors"
	"time"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/requestcontext"
)

type usableMembership struct {
	membership *models.Membership
	org        *models.Organization
}

// ResolveSession builds the caller's session. The remembered organization is
// used when the user still holds an active membership there; otherwise the
// oldest active membership in an active organization is chosen and
// remembered. A user with no usable membership is refused unless they are a
// platform operator.
func (s *Service) ResolveSession(ctx context.Context, userID id.UserID) (*session.Session, error) {
	start := time.Now()
	identity, err := s.users.FindIdentity(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) || errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	usable, err := s.usableMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &session.Session{
		User:               identity.User,
		Memberships:        make([]session.Membership, 0, len(usable)),
		IsPlatformOperator: identity.IsPlatformOperator,
	}
	for _, u := range usable {
		out.Memberships = append(out.Memberships, u.membership.ToContract())
	}

	if len(usable) == 0 {
		if identity.IsPlatformOperator {
			s.metrics.ObserveResolveSession("operator", start)
			return out, nil
		}
		s.metrics.ObserveResolveSession("denied", start)
		return nil, dErrors.New(dErrors.CodeForbidden, "no active organization membership")
	}

	chosen, outcome := s.pickActive(ctx, userID, usable)
	if outcome == "fallback" {
		if err := s.orgs.SetActiveOrganization(ctx, userID, chosen.org.ID, requestcontext.Now(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to remember fallback organization",
				"error", err,
				"user_id", userID.String(),
				"organization_id", chosen.org.ID.String(),
			)
		}
	}
	m := chosen.membership.ToContract()
	out.Membership = &m
	out.ActiveOrganization = chosen.org.ToContract()
	s.metrics.ObserveResolveSession(outcome, start)
	return out, nil
}

// pickActive returns the remembered organization's membership when usable,
// otherwise the first usable one.
func (s *Service) pickActive(ctx context.Context, userID id.UserID, usable []usableMembership) (usableMembership, string) {
	preferred, err := s.orgs.FindActiveOrganization(ctx, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to load remembered organization",
			"error", err,
			"user_id", userID.String(),
		)
	}
	if err == nil {
		for _, u := range usable {
			if u.org.ID == preferred {
				return u, "preferred"
			}
		}
	}
	return usable[0], "fallback"
}

func (s *Service) usableMemberships(ctx context.Context, userID id.UserID) ([]usableMembership, error) {
	memberships, err := s.memberships.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list memberships")
	}
	out := make([]usableMembership, 0, len(memberships))
	for _, m := range memberships {
		if !m.IsActive() {
			continue
		}
		org, err := s.orgs.FindByID(ctx, m.OrganizationID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, wrapOrganizationErr(err, "failed to load organization")
		}
		if !org.IsActive() {
			continue
		}
		out = append(out, usableMembership{membership: m, org: org})
	}
	return out, nil
}

// ActiveMembership returns the organization and role the caller acts in.
func (s *Service) ActiveMembership(ctx context.Context, userID id.UserID) (id.OrganizationID, session.Role, error) {
	sess, err := s.ResolveSession(ctx, userID)
	if err != nil {
		return id.OrganizationID{}, "", err
	}
	if sess.Membership == nil {
		return id.OrganizationID{}, "", dErrors.New(dErrors.CodeForbidden, "an active organization is required")
	}
	return sess.Membership.OrganizationID, sess.Membership.Role, nil
}

// SwitchOrganization remembers orgID as the caller's active organization and
// returns the re-resolved session.
func (s *Service) SwitchOrganization(ctx context.Context, userID id.UserID, orgID id.OrganizationID) (*session.Session, error) {
	if err := requireOrganizationID(orgID); err != nil {
		return nil, err
	}
	m, err := s.memberships.FindByUser(ctx, orgID, userID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership")
	}
	if m == nil || !m.IsActive() {
		return nil, dErrors.New(dErrors.CodeForbidden, "not an active member of this organization")
	}
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, wrapOrganizationErr(err, "failed to load organization")
	}
	if !org.IsActive() {
		return nil, dErrors.New(dErrors.CodeForbidden, "organization is inactive")
	}

	if err := s.orgs.SetActiveOrganization(ctx, userID, orgID, requestcontext.Now(ctx)); err != nil {
		return nil, wrapOrganizationErr(err, "failed to switch organization")
	}
	s.metrics.IncrementOrganizationSwitches()
	s.audit.Log(ctx, audit.EventOrganizationSwitched,
		"user_id", userID.String(),
		"organization_id", orgID.String(),
	)
	return s.ResolveSession(ctx, userID)
}
