// Package session holds the session shapes exchanged between the backend and
// dispatcher clients. Keep them independent of persistence models.
package session

import (
	"errors"
	"time"

	id "coldchain/pkg/domain"
)

// ContractVersion identifies the contract schema version for compatibility checks.
const ContractVersion = "v1.0.0"

// ErrNoMembership marks a session that carries neither a membership nor the
// platform operator flag. Such a session grants no access.
var ErrNoMembership = errors.New("session has no membership")

type Role string

const (
	RoleOwner      Role = "owner"
	RoleAdmin      Role = "admin"
	RoleDispatcher Role = "dispatcher"
	RoleViewer     Role = "viewer"
)

// CanManageMembers reports whether the role may invite or suspend members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanDispatch reports whether the role may change fleet assignments.
func (r Role) CanDispatch() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleDispatcher
}

type MembershipStatus string

const (
	MembershipInvited   MembershipStatus = "invited"
	MembershipActive    MembershipStatus = "active"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipInactive  MembershipStatus = "inactive"
)

type User struct {
	ID        id.UserID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
}

type Organization struct {
	ID     id.OrganizationID `json:"id"`
	Name   string            `json:"name"`
	Status string            `json:"status"`
}

type Membership struct {
	ID             id.MembershipID   `json:"id"`
	OrganizationID id.OrganizationID `json:"organization_id"`
	UserID         *id.UserID        `json:"user_id,omitempty"`
	Email          string            `json:"email"`
	Role           Role              `json:"role"`
	Status         MembershipStatus  `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Session is the authenticated user's identity plus organizational context.
type Session struct {
	User               User          `json:"user"`
	ActiveOrganization *Organization `json:"active_organization,omitempty"`
	Membership         *Membership   `json:"membership,omitempty"`
	Memberships        []Membership  `json:"memberships"`
	IsPlatformOperator bool          `json:"is_platform_operator"`
}

// Validate rejects sessions that carry no membership for a non-operator.
func (s *Session) Validate() error {
	if s == nil {
		return ErrNoMembership
	}
	if !s.IsPlatformOperator && s.Membership == nil {
		return ErrNoMembership
	}
	return nil
}

// Clone returns a deep copy so store readers cannot mutate shared state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.ActiveOrganization != nil {
		org := *s.ActiveOrganization
		out.ActiveOrganization = &org
	}
	if s.Membership != nil {
		m := s.Membership.clone()
		out.Membership = &m
	}
	if s.Memberships != nil {
		out.Memberships = make([]Membership, len(s.Memberships))
		for i, m := range s.Memberships {
			out.Memberships[i] = m.clone()
		}
	}
	return &out
}

func (m Membership) clone() Membership {
	if m.UserID != nil {
		userID := *m.UserID
		m.UserID = &userID
	}
	return m
}

// SwitchOrganizationRequest is the body of POST /session/organization.
type SwitchOrganizationRequest struct {
	OrganizationID id.OrganizationID `json:"organization_id"`
}
