package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contract "coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

// fakeFetcher serves a fixed session. When gate is set, Session blocks until
// it is closed.
type fakeFetcher struct {
	calls    atomic.Int32
	once     sync.Once
	sess     *contract.Session
	err      error
	gate     chan struct{}
	started  chan struct{}
	switched *contract.Session
}

func (f *fakeFetcher) Session(ctx context.Context) (*contract.Session, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.sess.Clone(), nil
}

func (f *fakeFetcher) SwitchOrganization(_ context.Context, orgID id.OrganizationID) (*contract.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.switched.Clone()
	out.ActiveOrganization.ID = orgID
	return out, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSyncWritesSession(t *testing.T) {
	store := NewStore()
	want := memberSession()
	s := NewSynchronizer(&fakeFetcher{sess: want}, store, WithSyncLogger(discardLogger()))

	got, err := s.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.User.ID, got.User.ID)
	assert.Equal(t, want.User.ID, store.Current().User.ID)
}

func TestSyncFailureClearsStore(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set(memberSession()))
	s := NewSynchronizer(&fakeFetcher{err: dErrors.New(dErrors.CodeUnavailable, "backend unreachable")}, store, WithSyncLogger(discardLogger()))

	_, err := s.Sync(context.Background())

	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
	assert.False(t, store.Authenticated())
}

func TestSyncWithoutMembershipClearsStore(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set(memberSession()))
	bare := bareSession()
	s := NewSynchronizer(&fakeFetcher{sess: bare}, store, WithSyncLogger(discardLogger()))

	_, err := s.Sync(context.Background())

	assert.ErrorIs(t, err, contract.ErrNoMembership)
	assert.False(t, store.Authenticated())
}

func TestConcurrentSyncsShareOneFetch(t *testing.T) {
	store := NewStore()
	fetcher := &fakeFetcher{sess: memberSession(), gate: make(chan struct{}), started: make(chan struct{})}
	started := fetcher.started
	s := NewSynchronizer(fetcher, store, WithSyncLogger(discardLogger()))

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := s.Sync(context.Background())
		errs <- err
	}()
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Sync(context.Background())
			errs <- err
		}()
	}
	// Give the followers time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.True(t, store.Authenticated())
}

func TestSignOutDuringSyncDiscardsResult(t *testing.T) {
	store := NewStore()
	fetcher := &fakeFetcher{sess: memberSession(), gate: make(chan struct{}), started: make(chan struct{})}
	started := fetcher.started
	s := NewSynchronizer(fetcher, store, WithSyncLogger(discardLogger()))

	done := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background())
		done <- err
	}()
	<-started
	store.Clear()
	close(fetcher.gate)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.False(t, store.Authenticated())
}

func TestSyncAfterSignOutStartsItsOwnFetch(t *testing.T) {
	store := NewStore()
	fetcher := &fakeFetcher{sess: memberSession(), gate: make(chan struct{}), started: make(chan struct{})}
	started := fetcher.started
	s := NewSynchronizer(fetcher, store, WithSyncLogger(discardLogger()))

	stale := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background())
		stale <- err
	}()
	<-started
	store.Clear()

	fresh := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background())
		fresh <- err
	}()
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
	close(fetcher.gate)

	assert.ErrorIs(t, <-stale, ErrSuperseded)
	assert.NoError(t, <-fresh)
	assert.True(t, store.Authenticated())
}

func TestSyncWithEmptyResponseClearsStore(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set(memberSession()))
	s := NewSynchronizer(&fakeFetcher{}, store, WithSyncLogger(discardLogger()))

	_, err := s.Sync(context.Background())

	assert.ErrorIs(t, err, contract.ErrNoMembership)
	assert.False(t, store.Authenticated())
}

func TestCallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	store := NewStore()
	fetcher := &fakeFetcher{sess: memberSession(), gate: make(chan struct{}), started: make(chan struct{})}
	started := fetcher.started
	s := NewSynchronizer(fetcher, store, WithSyncLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := s.Sync(ctx)
		first <- err
	}()
	<-started
	second := make(chan error, 1)
	go func() {
		_, err := s.Sync(context.Background())
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(fetcher.gate)
	assert.NoError(t, <-second)
	assert.True(t, store.Authenticated())
}

func TestSwitchOrganizationReplacesSession(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Set(memberSession()))
	target := id.OrganizationID(uuid.New())
	s := NewSynchronizer(&fakeFetcher{switched: memberSession()}, store)

	got, err := s.SwitchOrganization(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, target, got.ActiveOrganization.ID)
	assert.Equal(t, target, store.Current().ActiveOrganization.ID)
}

func TestSwitchOrganizationFailureKeepsSession(t *testing.T) {
	store := NewStore()
	before := memberSession()
	require.NoError(t, store.Set(before))
	s := NewSynchronizer(&fakeFetcher{err: dErrors.New(dErrors.CodeForbidden, "not a member")}, store)

	_, err := s.SwitchOrganization(context.Background(), id.OrganizationID(uuid.New()))

	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	assert.Equal(t, before.ActiveOrganization.ID, store.Current().ActiveOrganization.ID)
}
