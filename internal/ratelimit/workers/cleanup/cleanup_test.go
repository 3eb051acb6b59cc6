package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coldchain/internal/ratelimit/metrics"
	"coldchain/internal/ratelimit/store/bucket"
	"coldchain/internal/ratelimit/store/lockout"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunOnceRemovesIdleEntries(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	buckets := bucket.NewInMemory(clock)
	lockouts := lockout.NewInMemory()
	m := metrics.New(prometheus.NewRegistry())

	_, err := buckets.Allow(ctx, "ip:10.0.0.1:auth", 5, time.Minute)
	require.NoError(t, err)
	_, err = lockouts.RecordFailure(ctx, "lockout:ana@polar.example:10.0.0.1", clock.Now(), 15*time.Minute)
	require.NoError(t, err)

	svc, err := New(buckets, lockouts, WithClock(clock), WithMetrics(m), WithLockoutWindow(15*time.Minute))
	require.NoError(t, err)

	removed, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	clock.Advance(16 * time.Minute)
	removed, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CleanupRemoved))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CleanupRuns.WithLabelValues("ok")))
}

type failingBuckets struct{}

func (failingBuckets) Prune(context.Context) (int, error) {
	return 0, errors.New("redis unavailable")
}

func TestRunOnceReportsStoreErrors(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	svc, err := New(failingBuckets{}, lockout.NewInMemory(), WithMetrics(m))
	require.NoError(t, err)

	_, err = svc.RunOnce(context.Background())
	assert.ErrorContains(t, err, "prune rate limit windows")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CleanupRuns.WithLabelValues("error")))
}

type tickingBuckets struct {
	calls chan struct{}
}

func (b *tickingBuckets) Prune(context.Context) (int, error) {
	b.calls <- struct{}{}
	return 0, nil
}

func TestStartRunsOnEachTick(t *testing.T) {
	clock := clockwork.NewFakeClock()
	buckets := &tickingBuckets{calls: make(chan struct{}, 4)}
	svc, err := New(buckets, lockout.NewInMemory(), WithClock(clock), WithInterval(time.Minute))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	for range 2 {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(time.Minute)
		select {
		case <-buckets.calls:
		case <-time.After(time.Second):
			t.Fatal("cleanup did not run on tick")
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewRequiresStores(t *testing.T) {
	_, err := New(nil, lockout.NewInMemory())
	assert.Error(t, err)
}
