package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contract "coldchain/contracts/session"
	id "coldchain/pkg/domain"
	"coldchain/pkg/testutil"
)

func memberSession() *contract.Session {
	return testutil.NewSessionBuilder().WithUserID(id.UserID(uuid.New())).Build()
}

func bareSession() *contract.Session {
	return testutil.NewSessionBuilder().WithUserID(id.UserID(uuid.New())).WithoutMembership().Build()
}

func TestStoreRefusesSessionWithoutMembership(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(memberSession()))

	err := s.Set(bareSession())

	assert.ErrorIs(t, err, contract.ErrNoMembership)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.Current())
}

func TestStoreAcceptsOperatorWithoutMembership(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Set(testutil.NewSessionBuilder().WithoutMembership().AsPlatformOperator().Build()))
	assert.True(t, s.Authenticated())
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set(memberSession()))

	got := s.Current()
	got.Membership.Role = contract.RoleOwner

	assert.Equal(t, contract.RoleDispatcher, s.Current().Membership.Role)
}

func TestStoreConditionalWrites(t *testing.T) {
	s := NewStore()
	epoch := s.Epoch()
	s.Clear()

	written, err := s.SetIf(epoch, memberSession())
	require.NoError(t, err)
	assert.False(t, written)
	assert.False(t, s.Authenticated())

	require.NoError(t, s.Set(memberSession()))
	assert.False(t, s.ClearIf(epoch))
	assert.True(t, s.Authenticated())
	assert.True(t, s.ClearIf(s.Epoch()))
	assert.False(t, s.Authenticated())
}

func TestStoreWatch(t *testing.T) {
	s := NewStore()
	ch := make(chan *contract.Session, 2)
	cancel := s.Watch(ch)

	require.NoError(t, s.Set(memberSession()))
	s.Clear()
	cancel()
	require.NoError(t, s.Set(memberSession()))

	assert.NotNil(t, <-ch)
	assert.Nil(t, <-ch)
	assert.Empty(t, ch)
}
