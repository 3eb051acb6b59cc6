package models

import (
	"strings"
	"time"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

// Membership binds a user to an organization with a role. An invitation is a
// membership whose UserID is still nil.
type Membership struct {
	ID             id.MembershipID
	OrganizationID id.OrganizationID
	UserID         *id.UserID
	Email          string
	Role           session.Role
	Status         session.MembershipStatus
	InvitedBy      *id.UserID
	SuspendedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func validRole(r session.Role) bool {
	switch r {
	case session.RoleOwner, session.RoleAdmin, session.RoleDispatcher, session.RoleViewer:
		return true
	}
	return false
}

// NewInvitation creates a pending membership addressed to email.
func NewInvitation(membershipID id.MembershipID, orgID id.OrganizationID, email string, role session.Role, invitedBy id.UserID, now time.Time) (*Membership, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if orgID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization ID required")
	}
	if !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "valid email required")
	}
	if !validRole(role) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown role")
	}
	if role == session.RoleOwner {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owners cannot be invited")
	}
	m := &Membership{
		ID:             membershipID,
		OrganizationID: orgID,
		Email:          email,
		Role:           role,
		Status:         session.MembershipInvited,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !invitedBy.IsNil() {
		m.InvitedBy = &invitedBy
	}
	return m, nil
}

// NewOwnerMembership creates the active founding membership of an organization.
func NewOwnerMembership(membershipID id.MembershipID, orgID id.OrganizationID, userID id.UserID, email string, now time.Time) *Membership {
	return &Membership{
		ID:             membershipID,
		OrganizationID: orgID,
		UserID:         &userID,
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Role:           session.RoleOwner,
		Status:         session.MembershipActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (m *Membership) IsActive() bool {
	return m.Status == session.MembershipActive && m.UserID != nil
}

// IsPending reports whether the membership is an invitation that can still be
// accepted.
func (m *Membership) IsPending() bool {
	return m.UserID == nil && m.Status != session.MembershipInactive
}

// Accept links the invitation to userID and activates it.
func (m *Membership) Accept(userID id.UserID, now time.Time) error {
	if !m.IsPending() {
		return dErrors.New(dErrors.CodeInvariantViolation, "invitation is not pending")
	}
	m.UserID = &userID
	m.Status = session.MembershipActive
	m.UpdatedAt = now
	return nil
}

// Retire marks a superseded invitation inactive.
func (m *Membership) Retire(now time.Time) {
	m.Status = session.MembershipInactive
	m.UpdatedAt = now
}

// Suspend bans the member. Owners cannot be suspended.
func (m *Membership) Suspend(now time.Time) error {
	if m.Role == session.RoleOwner {
		return dErrors.New(dErrors.CodeInvariantViolation, "owners cannot be suspended")
	}
	if m.Status == session.MembershipSuspended {
		return dErrors.New(dErrors.CodeInvariantViolation, "member is already suspended")
	}
	m.Status = session.MembershipSuspended
	m.SuspendedAt = &now
	m.UpdatedAt = now
	return nil
}

func (m *Membership) ToContract() session.Membership {
	out := session.Membership{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		Email:          m.Email,
		Role:           m.Role,
		Status:         m.Status,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.UserID != nil {
		u := *m.UserID
		out.UserID = &u
	}
	return out
}

// Clone returns a copy that shares no pointers with m.
func (m *Membership) Clone() *Membership {
	out := *m
	if m.UserID != nil {
		u := *m.UserID
		out.UserID = &u
	}
	if m.InvitedBy != nil {
		u := *m.InvitedBy
		out.InvitedBy = &u
	}
	if m.SuspendedAt != nil {
		t := *m.SuspendedAt
		out.SuspendedAt = &t
	}
	return &out
}
