package periodic

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestEveryRunsOnTicksAndLogsFailures(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	runs := make(chan int, 4)
	n := 0
	job := func(context.Context) error {
		n++
		runs <- n
		if n == 1 {
			return errors.New("store offline")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Every(ctx, clock, time.Minute, log, "sweep", job) }()

	for want := 1; want <= 2; want++ {
		require.NoError(t, clock.BlockUntilContext(ctx, 1))
		clock.Advance(time.Minute)
		select {
		case got := <-runs:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("run %d did not happen", want)
		}
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Contains(t, buf.String(), "job=sweep")
	assert.Contains(t, buf.String(), "store offline")
}

func TestEveryStopsWithoutTicking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Every(ctx, clockwork.NewFakeClock(), time.Hour, slog.New(slog.DiscardHandler), "idle", func(context.Context) error {
		t.Fatal("job ran")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscard(t *testing.T) {
	boom := errors.New("boom")
	fn := Discard(func(context.Context) (int, error) { return 3, boom })
	assert.ErrorIs(t, fn(context.Background()), boom)
}
