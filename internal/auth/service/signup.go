package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"coldchain/internal/auth/email"
	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/requestcontext"
)

const (
	defaultBcryptCost = bcrypt.DefaultCost
	minPasswordLength = 8
)

type SignUpCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// SignUp creates a user, links any pending invitations sent to the email and
// opens a first refresh session.
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (*models.TokenResult, error) {
	start := time.Now()
	addr := strings.ToLower(strings.TrimSpace(cmd.Email))
	if !email.Valid(addr) {
		return nil, dErrors.New(dErrors.CodeValidation, "valid email required")
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	first, last := strings.TrimSpace(cmd.FirstName), strings.TrimSpace(cmd.LastName)
	if first == "" || last == "" {
		derivedFirst, derivedLast := email.NameParts(addr)
		if first == "" {
			first = derivedFirst
		}
		if last == "" {
			last = derivedLast
		}
	}

	now := requestcontext.Now(ctx)
	user, err := models.NewUser(id.UserID(newUUID()), addr, string(hash), first, last, strings.TrimSpace(cmd.Phone), now)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, wrapStoreErr(err, "user", "failed to create user")
	}
	s.metrics.IncrementUsersCreated()
	s.audit.Log(ctx, audit.EventUserCreated, "user_id", user.ID.String(), "email", user.Email)

	if s.invitations != nil {
		accepted, err := s.invitations.AcceptPendingInvitations(ctx, user.ID, user.Email)
		if err != nil {
			// The account exists; the user can be re-invited.
			s.logger.ErrorContext(ctx, "failed to accept pending invitations",
				"error", err,
				"user_id", user.ID.String(),
			)
		} else if accepted > 0 {
			s.logger.InfoContext(ctx, "accepted pending invitations",
				"user_id", user.ID.String(),
				"count", accepted,
			)
		}
	}

	result, err := s.openSession(ctx, user.ID, now)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveTokenRequest("signup", start)
	return result, nil
}
