package bansync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	membershipstore "coldchain/internal/org/store/membership"
	id "coldchain/pkg/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRevoker struct {
	calls []id.UserID
	fail  map[id.UserID]error
}

func (r *recordingRevoker) RevokeAllForUser(_ context.Context, userID id.UserID, reason string) (int, error) {
	if err := r.fail[userID]; err != nil {
		return 0, err
	}
	if reason != revokeReason {
		return 0, errors.New("unexpected reason " + reason)
	}
	r.calls = append(r.calls, userID)
	return 1, nil
}

type fixture struct {
	clock       *clockwork.FakeClock
	memberships *membershipstore.InMemory
	revoker     *recordingRevoker
	orgID       id.OrganizationID
}

func newFixture() *fixture {
	return &fixture{
		clock:       clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		memberships: membershipstore.NewInMemory(),
		revoker:     &recordingRevoker{fail: map[id.UserID]error{}},
		orgID:       id.OrganizationID(uuid.New()),
	}
}

// suspend stores a suspended membership for a new user at the given time.
func (f *fixture) suspend(t *testing.T, at time.Time) id.UserID {
	t.Helper()
	userID := id.UserID(uuid.New())
	m := &models.Membership{
		ID:             id.MembershipID(uuid.New()),
		OrganizationID: f.orgID,
		UserID:         &userID,
		Email:          userID.String() + "@polar.example",
		Role:           session.RoleDispatcher,
		Status:         session.MembershipActive,
		CreatedAt:      at.Add(-time.Hour),
		UpdatedAt:      at.Add(-time.Hour),
	}
	require.NoError(t, m.Suspend(at))
	require.NoError(t, f.memberships.Create(context.Background(), m))
	return userID
}

func TestRunOnceRevokesNewSuspensionsOnce(t *testing.T) {
	f := newFixture()
	now := f.clock.Now()
	f.suspend(t, now.Add(-2*time.Hour))
	recent := f.suspend(t, now.Add(-10*time.Minute))

	syncer, err := New(f.memberships, f.revoker, WithClock(f.clock), WithLookback(time.Hour))
	require.NoError(t, err)

	n, err := syncer.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []id.UserID{recent}, f.revoker.calls)

	n, err = syncer.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	later := f.suspend(t, now.Add(time.Minute))
	n, err = syncer.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []id.UserID{recent, later}, f.revoker.calls)
}

func TestFailedRevocationIsRetried(t *testing.T) {
	f := newFixture()
	now := f.clock.Now()
	first := f.suspend(t, now.Add(-3*time.Minute))
	failing := f.suspend(t, now.Add(-2*time.Minute))
	f.revoker.fail[failing] = errors.New("redis down")

	syncer, err := New(f.memberships, f.revoker, WithClock(f.clock))
	require.NoError(t, err)

	n, err := syncer.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)

	delete(f.revoker.fail, failing)
	n, err = syncer.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []id.UserID{first, failing}, f.revoker.calls)
}

type tickingSource struct {
	calls chan time.Time
}

func (s *tickingSource) ListSuspendedSince(_ context.Context, since time.Time) ([]*models.Membership, error) {
	s.calls <- since
	return nil, nil
}

func TestStartRunsOnEachTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	source := &tickingSource{calls: make(chan time.Time, 4)}
	syncer, err := New(source, &recordingRevoker{}, WithClock(clock), WithInterval(30*time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- syncer.Start(ctx) }()

	for i := 0; i < 2; i++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(30 * time.Second)
		select {
		case <-source.calls:
		case <-time.After(time.Second):
			t.Fatal("sync did not run on tick")
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(nil, &recordingRevoker{})
	assert.Error(t, err)
	_, err = New(membershipstore.NewInMemory(), nil)
	assert.Error(t, err)
}
