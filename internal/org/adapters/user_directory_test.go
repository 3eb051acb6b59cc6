package adapters

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type stubUsers map[id.UserID]*authmodels.User

func (s stubUsers) GetUser(_ context.Context, userID id.UserID) (*authmodels.User, error) {
	if u, ok := s[userID]; ok {
		return u, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
}

func TestFindIdentity(t *testing.T) {
	userID := id.UserID(uuid.New())
	dir := NewAuthUserDirectory(stubUsers{
		userID: {ID: userID, Email: "ops@coldchain.example", PasswordHash: "x", FirstName: "Ops", IsPlatformOperator: true},
	})

	identity, err := dir.FindIdentity(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, identity.IsPlatformOperator)
	assert.Equal(t, "ops@coldchain.example", identity.User.Email)
	assert.Equal(t, "Ops", identity.User.FirstName)

	_, err = dir.FindIdentity(context.Background(), id.UserID(uuid.New()))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}
