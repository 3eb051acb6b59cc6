package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

func TestNewUserInvariants(t *testing.T) {
	now := time.Now()
	userID := id.UserID(uuid.New())

	_, err := NewUser(id.UserID{}, "a@b.io", "hash", "", "", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewUser(userID, "not-an-email", "hash", "", "", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewUser(userID, "a@b.io", "", "", "", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	u, err := NewUser(userID, "a@b.io", "hash", "Ana", "Ruiz", "", now)
	require.NoError(t, err)
	assert.False(t, u.IsPlatformOperator)
	assert.Equal(t, now, u.UpdatedAt)
}

func TestApplyProfile(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)
	u := &User{FirstName: "Ana", LastName: "Ruiz", UpdatedAt: created}

	same := "Ana"
	assert.False(t, u.ApplyProfile(ProfileChange{FirstName: &same}, later))
	assert.Equal(t, created, u.UpdatedAt)

	phone := "+34 600 000 000"
	assert.True(t, u.ApplyProfile(ProfileChange{Phone: &phone}, later))
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, later, u.UpdatedAt)
}

func TestRefreshSessionLifecycle(t *testing.T) {
	now := time.Now()
	s := &RefreshSession{TokenHash: HashToken("a"), ExpiresAt: now.Add(time.Hour)}
	assert.True(t, s.IsActive(now))
	assert.False(t, s.IsActive(now.Add(2*time.Hour)))

	s.Rotate(HashToken("b"), now.Add(30*time.Minute), time.Hour)
	assert.Equal(t, HashToken("b"), s.TokenHash)
	assert.True(t, s.IsActive(now.Add(80*time.Minute)))

	s.Revoke(now)
	first := *s.RevokedAt
	s.Revoke(now.Add(time.Minute))
	assert.Equal(t, first, *s.RevokedAt)
	assert.False(t, s.IsActive(now))
}

func TestHashTokenIsStable(t *testing.T) {
	assert.Equal(t, HashToken("token"), HashToken("token"))
	assert.NotEqual(t, HashToken("token"), HashToken("other"))
	assert.Len(t, HashToken("token"), 64)
}
