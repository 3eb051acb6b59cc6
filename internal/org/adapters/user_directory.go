package adapters

import (
	"context"

	"coldchain/contracts/session"
	authmodels "coldchain/internal/auth/models"
	"coldchain/internal/org/service"
	id "coldchain/pkg/domain"
)

// userProvider is the part of the auth service the org module reads.
// Defined locally to avoid coupling org to the auth service package.
type userProvider interface {
	GetUser(ctx context.Context, userID id.UserID) (*authmodels.User, error)
}

// AuthUserDirectory adapts the auth service to service.UserDirectory.
type AuthUserDirectory struct {
	auth userProvider
}

func NewAuthUserDirectory(auth userProvider) *AuthUserDirectory {
	return &AuthUserDirectory{auth: auth}
}

// FindIdentity maps an auth user to the session-facing identity.
func (a *AuthUserDirectory) FindIdentity(ctx context.Context, userID id.UserID) (*service.Identity, error) {
	u, err := a.auth.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &service.Identity{
		User: session.User{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Phone:     u.Phone,
		},
		IsPlatformOperator: u.IsPlatformOperator,
	}, nil
}
