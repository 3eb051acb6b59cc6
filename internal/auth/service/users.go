package service

import (
	"context"

	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/requestcontext"
)

func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "user", "failed to load user")
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of change. A change that alters
// nothing returns the user without writing.
func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, change models.ProfileChange) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.ApplyProfile(change, requestcontext.Now(ctx)) {
		return user, nil
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, wrapStoreErr(err, "user", "failed to update user")
	}
	s.audit.Log(ctx, audit.EventUserUpdated, "user_id", user.ID.String())
	return user, nil
}
