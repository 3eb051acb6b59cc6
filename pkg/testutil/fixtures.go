package testutil

import (
	"time"

	"github.com/google/uuid"

	"coldchain/contracts/session"
	fleetmodels "coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
)

// TestIDs provides fixed IDs for deterministic test data.
var TestIDs = struct {
	UserID1 id.UserID
	UserID2 id.UserID
	OrgID1  id.OrganizationID
	OrgID2  id.OrganizationID
}{
	UserID1: id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	UserID2: id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	OrgID1:  id.OrganizationID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	OrgID2:  id.OrganizationID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
}

// SessionBuilder provides a fluent interface for building client sessions.
type SessionBuilder struct {
	s *session.Session
}

// NewSessionBuilder starts from a dispatcher in TestIDs.OrgID1.
func NewSessionBuilder() *SessionBuilder {
	userID := TestIDs.UserID1
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := session.Membership{
		ID:             id.MembershipID(uuid.New()),
		OrganizationID: TestIDs.OrgID1,
		UserID:         &userID,
		Email:          "dispatch@coldchain.io",
		Role:           session.RoleDispatcher,
		Status:         session.MembershipActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return &SessionBuilder{s: &session.Session{
		User:               session.User{ID: userID, Email: "dispatch@coldchain.io", FirstName: "Dana", LastName: "Reyes"},
		ActiveOrganization: &session.Organization{ID: TestIDs.OrgID1, Name: "Polar Logistics", Status: "active"},
		Membership:         &m,
		Memberships:        []session.Membership{m},
	}}
}

func (b *SessionBuilder) WithUserID(userID id.UserID) *SessionBuilder {
	b.s.User.ID = userID
	if b.s.Membership != nil {
		b.s.Membership.UserID = &userID
	}
	return b
}

func (b *SessionBuilder) WithRole(role session.Role) *SessionBuilder {
	if b.s.Membership != nil {
		b.s.Membership.Role = role
	}
	return b
}

// WithoutMembership builds a session that only a platform operator may hold.
func (b *SessionBuilder) WithoutMembership() *SessionBuilder {
	b.s.Membership = nil
	b.s.ActiveOrganization = nil
	b.s.Memberships = nil
	return b
}

func (b *SessionBuilder) AsPlatformOperator() *SessionBuilder {
	b.s.IsPlatformOperator = true
	return b
}

func (b *SessionBuilder) Build() *session.Session {
	return b.s.Clone()
}

// VehicleBuilder builds fleet vehicles with sensible defaults.
type VehicleBuilder struct {
	v *fleetmodels.Vehicle
}

func NewVehicleBuilder() *VehicleBuilder {
	return &VehicleBuilder{v: &fleetmodels.Vehicle{
		ID:             id.VehicleID(uuid.New()),
		OrganizationID: TestIDs.OrgID1,
		CarrierID:      id.CarrierID(uuid.New()),
		Plate:          "TRK-100",
		Type:           fleetmodels.VehicleTractor,
		CreatedAt:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func (b *VehicleBuilder) WithPlate(plate string) *VehicleBuilder {
	b.v.Plate = plate
	return b
}

func (b *VehicleBuilder) WithType(t fleetmodels.VehicleType) *VehicleBuilder {
	b.v.Type = t
	return b
}

func (b *VehicleBuilder) WithOrganization(orgID id.OrganizationID) *VehicleBuilder {
	b.v.OrganizationID = orgID
	return b
}

func (b *VehicleBuilder) Build() *fleetmodels.Vehicle {
	cp := *b.v
	return &cp
}
