package cleanup

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

	"coldchain/internal/auth/models"
	sessionStore "coldchain/internal/auth/store/session"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSession(userID id.UserID, created, expires time.Time) *models.RefreshSession {
	return &models.RefreshSession{
		ID:        id.SessionID(uuid.New()),
		UserID:    userID,
		TokenHash: models.HashToken(uuid.NewString()),
		CreatedAt: created,
		ExpiresAt: expires,
	}
}

func TestRunOnceRemovesDeadSessions(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	now := clock.Now()
	sessions := sessionStore.New()
	userID := id.UserID(uuid.New())

	expired := newSession(userID, now.Add(-48*time.Hour), now.Add(-time.Hour))
	live := newSession(userID, now.Add(-time.Hour), now.Add(24*time.Hour))
	revoked := newSession(userID, now.Add(-time.Hour), now.Add(24*time.Hour))
	revoked.Revoke(now.Add(-time.Minute))
	for _, rs := range []*models.RefreshSession{expired, live, revoked} {
		require.NoError(t, sessions.Create(ctx, rs))
	}

	svc, err := New(sessions, WithClock(clock))
	require.NoError(t, err)

	deleted, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	_, err = sessions.FindByID(ctx, expired.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = sessions.FindByID(ctx, revoked.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = sessions.FindByID(ctx, live.ID)
	assert.NoError(t, err)
}

type failingStore struct{ err error }

func (f failingStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, f.err
}

func TestRunOnceWrapsStoreErrors(t *testing.T) {
	offline := errors.New("connection refused")
	svc, err := New(failingStore{err: offline})
	require.NoError(t, err)

	_, err = svc.RunOnce(context.Background())
	assert.ErrorIs(t, err, offline)
	assert.ErrorContains(t, err, "delete dead sessions")
}

func TestStartSweepsOnTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	now := clock.Now()
	sessions := sessionStore.New()
	dead := newSession(id.UserID(uuid.New()), now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, sessions.Create(context.Background(), dead))

	svc, err := New(sessions, WithClock(clock), WithCleanupInterval(time.Minute))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(time.Minute)
	assert.Eventually(t, func() bool {
		_, err := sessions.FindByID(context.Background(), dead.ID)
		return errors.Is(err, sentinel.ErrNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
