//go:build integration

package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"coldchain/internal/auth/models"
	"coldchain/internal/auth/store/user"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/testutil/containers"
)

type PostgresUserStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *user.PostgresStore
	ctx      context.Context
}

func TestPostgresUserStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresUserStoreSuite))
}

func (s *PostgresUserStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = user.NewPostgres(s.postgres.DB)
}

func (s *PostgresUserStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.TruncateModuleTables(s.ctx))
}

func (s *PostgresUserStoreSuite) newUser(email string) *models.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	u, err := models.NewUser(id.UserID(uuid.New()), email, "hash", "Mia", "North", "+4790000000", now)
	s.Require().NoError(err)
	return u
}

func (s *PostgresUserStoreSuite) TestCreateAndFind() {
	u := s.newUser("mia@polar.example")
	s.Require().NoError(s.store.Create(s.ctx, u))

	byID, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Email, byID.Email)
	s.Equal("+4790000000", byID.Phone)
	s.True(u.CreatedAt.Equal(byID.CreatedAt))

	byEmail, err := s.store.FindByEmail(s.ctx, "mia@polar.example")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
}

func (s *PostgresUserStoreSuite) TestEmailIsUniqueIgnoringCase() {
	s.Require().NoError(s.store.Create(s.ctx, s.newUser("mia@polar.example")))
	s.ErrorIs(s.store.Create(s.ctx, s.newUser("MIA@polar.example")), sentinel.ErrAlreadyUsed)
}

func (s *PostgresUserStoreSuite) TestUpdate() {
	u := s.newUser("mia@polar.example")
	s.Require().NoError(s.store.Create(s.ctx, u))

	u.FirstName = "Maja"
	u.UpdatedAt = u.UpdatedAt.Add(time.Minute)
	s.Require().NoError(s.store.Update(s.ctx, u))

	found, err := s.store.FindByID(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Maja", found.FirstName)

	s.ErrorIs(s.store.Update(s.ctx, s.newUser("ghost@polar.example")), sentinel.ErrNotFound)
}

func (s *PostgresUserStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(s.ctx, id.UserID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByEmail(s.ctx, "nobody@polar.example")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
