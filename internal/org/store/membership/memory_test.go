package membership

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

type InMemoryMembershipStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	orgID id.OrganizationID
	base  time.Time
}

func TestInMemoryMembershipStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryMembershipStoreSuite))
}

func (s *InMemoryMembershipStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.orgID = id.OrganizationID(uuid.New())
	s.base = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryMembershipStoreSuite) invite(orgID id.OrganizationID, email string, at time.Time) *models.Membership {
	m, err := models.NewInvitation(id.MembershipID(uuid.New()), orgID, email, session.RoleDispatcher, id.UserID{}, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, m))
	return m
}

func (s *InMemoryMembershipStoreSuite) TestOneMembershipPerUserPerOrganization() {
	userID := id.UserID(uuid.New())
	owner := models.NewOwnerMembership(id.MembershipID(uuid.New()), s.orgID, userID, "o@polar.example", s.base)
	s.Require().NoError(s.store.Create(s.ctx, owner))

	dup := models.NewOwnerMembership(id.MembershipID(uuid.New()), s.orgID, userID, "o@polar.example", s.base)
	s.ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)

	inv := s.invite(s.orgID, "o@polar.example", s.base)
	s.Require().NoError(inv.Accept(userID, s.base))
	s.ErrorIs(s.store.Update(s.ctx, inv), sentinel.ErrAlreadyUsed)

	elsewhere := models.NewOwnerMembership(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), userID, "o@polar.example", s.base)
	s.NoError(s.store.Create(s.ctx, elsewhere))
}

func (s *InMemoryMembershipStoreSuite) TestListPendingByEmailNewestFirst() {
	older := s.invite(s.orgID, "mia@polar.example", s.base)
	newer := s.invite(s.orgID, "Mia@Polar.example", s.base.Add(time.Hour))
	retired := s.invite(s.orgID, "mia@polar.example", s.base.Add(2*time.Hour))
	retired.Retire(s.base)
	s.Require().NoError(s.store.Update(s.ctx, retired))
	s.invite(s.orgID, "other@polar.example", s.base)

	pending, err := s.store.ListPendingByEmail(s.ctx, "MIA@polar.example")

	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal(newer.ID, pending[0].ID)
	s.Equal(older.ID, pending[1].ID)
}

func (s *InMemoryMembershipStoreSuite) TestFindIsScopedToOrganization() {
	inv := s.invite(s.orgID, "mia@polar.example", s.base)

	_, err := s.store.FindByID(s.ctx, id.OrganizationID(uuid.New()), inv.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.store.FindByID(s.ctx, s.orgID, inv.ID)
	s.Require().NoError(err)
	s.Equal(inv.Email, got.Email)
}

func (s *InMemoryMembershipStoreSuite) TestListSuspendedSince() {
	mk := func(suspendedAt time.Time) *models.Membership {
		userID := id.UserID(uuid.New())
		m := &models.Membership{
			ID: id.MembershipID(uuid.New()), OrganizationID: s.orgID, UserID: &userID,
			Role: session.RoleViewer, Status: session.MembershipActive, CreatedAt: s.base,
		}
		s.Require().NoError(m.Suspend(suspendedAt))
		s.Require().NoError(s.store.Create(s.ctx, m))
		return m
	}
	mk(s.base)
	late := mk(s.base.Add(2 * time.Hour))
	mid := mk(s.base.Add(time.Hour))

	got, err := s.store.ListSuspendedSince(s.ctx, s.base)

	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(mid.ID, got[0].ID)
	s.Equal(late.ID, got[1].ID)
}

func (s *InMemoryMembershipStoreSuite) TestListByUserOldestFirst() {
	userID := id.UserID(uuid.New())
	second := models.NewOwnerMembership(id.MembershipID(uuid.New()), id.OrganizationID(uuid.New()), userID, "o@polar.example", s.base.Add(time.Hour))
	first := models.NewOwnerMembership(id.MembershipID(uuid.New()), s.orgID, userID, "o@polar.example", s.base)
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	got, err := s.store.ListByUser(s.ctx, userID)

	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(first.ID, got[0].ID)
}
