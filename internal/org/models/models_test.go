package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

var now = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

func TestNewOrganization(t *testing.T) {
	t.Run("trims name", func(t *testing.T) {
		org, err := NewOrganization(id.OrganizationID(uuid.New()), "  Polar Logistics ", now)
		require.NoError(t, err)
		assert.Equal(t, "Polar Logistics", org.Name)
		assert.True(t, org.IsActive())
	})
	t.Run("empty name", func(t *testing.T) {
		_, err := NewOrganization(id.OrganizationID(uuid.New()), " ", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
	t.Run("deactivate twice", func(t *testing.T) {
		org, err := NewOrganization(id.OrganizationID(uuid.New()), "Polar", now)
		require.NoError(t, err)
		require.NoError(t, org.Deactivate(now))
		assert.Error(t, org.Deactivate(now))
	})
}

func TestNewInvitation(t *testing.T) {
	orgID := id.OrganizationID(uuid.New())
	inviter := id.UserID(uuid.New())

	tests := []struct {
		name    string
		email   string
		role    session.Role
		wantErr bool
	}{
		{"dispatcher", " Mia@Polar.Example ", session.RoleDispatcher, false},
		{"viewer", "v@polar.example", session.RoleViewer, false},
		{"owner is refused", "o@polar.example", session.RoleOwner, true},
		{"unknown role", "x@polar.example", session.Role("driver"), true},
		{"bad email", "nope", session.RoleViewer, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewInvitation(id.MembershipID(uuid.New()), orgID, tt.email, tt.role, inviter, now)
			if tt.wantErr {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, session.MembershipInvited, m.Status)
			assert.Nil(t, m.UserID)
			assert.True(t, m.IsPending())
			assert.False(t, m.IsActive())
		})
	}
}

func TestAcceptInvitation(t *testing.T) {
	m, err := NewInvitation(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), "mia@polar.example", session.RoleDispatcher, id.UserID{}, now)
	require.NoError(t, err)
	assert.Nil(t, m.InvitedBy)

	userID := id.UserID(uuid.New())
	later := now.Add(time.Hour)
	require.NoError(t, m.Accept(userID, later))

	assert.True(t, m.IsActive())
	assert.Equal(t, userID, *m.UserID)
	assert.Equal(t, later, m.UpdatedAt)
	assert.Error(t, m.Accept(userID, later), "accepting twice fails")
}

func TestRetiredInvitationIsNotPending(t *testing.T) {
	m, err := NewInvitation(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), "mia@polar.example", session.RoleViewer, id.UserID{}, now)
	require.NoError(t, err)
	m.Retire(now)
	assert.False(t, m.IsPending())
}

func TestSuspend(t *testing.T) {
	owner := NewOwnerMembership(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), id.UserID(uuid.New()), "o@polar.example", now)
	assert.Error(t, owner.Suspend(now))

	userID := id.UserID(uuid.New())
	m := &Membership{Role: session.RoleDispatcher, Status: session.MembershipActive, UserID: &userID}
	require.NoError(t, m.Suspend(now))
	assert.Equal(t, session.MembershipSuspended, m.Status)
	assert.Equal(t, now, *m.SuspendedAt)
	assert.False(t, m.IsActive())
	assert.Error(t, m.Suspend(now))
}

func TestCloneSharesNoPointers(t *testing.T) {
	owner := NewOwnerMembership(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), id.UserID(uuid.New()), "o@polar.example", now)
	cp := owner.Clone()
	*cp.UserID = id.UserID(uuid.New())
	assert.NotEqual(t, *owner.UserID, *cp.UserID)

	contract := owner.ToContract()
	assert.Equal(t, *owner.UserID, *contract.UserID)
}
