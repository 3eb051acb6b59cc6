package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

// User is a platform account. Organization context lives in the org module.
type User struct {
	ID                 id.UserID
	Email              string
	PasswordHash       string
	FirstName          string
	LastName           string
	Phone              string
	IsPlatformOperator bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func NewUser(userID id.UserID, email, passwordHash, firstName, lastName, phone string, now time.Time) (*User, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user ID required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "valid email required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash required")
	}
	return &User{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Phone:        phone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ProfileChange carries the optional fields of a profile update.
type ProfileChange struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

func (c ProfileChange) IsEmpty() bool {
	return c.FirstName == nil && c.LastName == nil && c.Phone == nil
}

// ApplyProfile updates the provided fields and reports whether anything changed.
func (u *User) ApplyProfile(c ProfileChange, now time.Time) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	set(&u.FirstName, c.FirstName)
	set(&u.LastName, c.LastName)
	set(&u.Phone, c.Phone)
	if changed {
		u.UpdatedAt = now
	}
	return changed
}

// RefreshSession is one signed-in device. The refresh token itself is never
// stored, only its hash, and it is rotated on every refresh.
type RefreshSession struct {
	ID              id.SessionID
	UserID          id.UserID
	TokenHash       string
	DeviceLabel     string
	ClientIP        string
	CreatedAt       time.Time
	LastRefreshedAt *time.Time
	ExpiresAt       time.Time
	RevokedAt       *time.Time
}

func (s *RefreshSession) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsActive reports whether the session can still mint access tokens.
func (s *RefreshSession) IsActive(now time.Time) bool {
	return !s.IsRevoked() && now.Before(s.ExpiresAt)
}

func (s *RefreshSession) Revoke(now time.Time) {
	if s.RevokedAt == nil {
		s.RevokedAt = &now
	}
}

// Rotate swaps in the hash of a freshly issued refresh token.
func (s *RefreshSession) Rotate(newHash string, now time.Time, ttl time.Duration) {
	s.TokenHash = newHash
	s.LastRefreshedAt = &now
	s.ExpiresAt = now.Add(ttl)
}

// HashToken derives the lookup key for an opaque refresh token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenResult is what sign-up, sign-in and refresh hand back to the caller.
type TokenResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	UserID       id.UserID
	SessionID    id.SessionID
}
