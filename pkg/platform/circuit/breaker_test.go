package circuit

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b := New("flespi", WithFailureThreshold(3), WithClock(clockwork.NewFakeClock()))

	assert.False(t, b.RecordFailure().Opened)
	assert.False(t, b.RecordFailure().Opened)
	assert.True(t, b.RecordFailure().Opened)
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := New("flespi", WithFailureThreshold(2), WithClock(clockwork.NewFakeClock()))

	b.RecordFailure()
	b.RecordSuccess()
	assert.False(t, b.RecordFailure().Opened)
	assert.True(t, b.Allow())
}

func TestBreakerHalfOpenProbes(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("flespi",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithCooldown(10*time.Second),
		WithClock(clock),
	)
	b.RecordFailure()
	assert.False(t, b.Allow())

	clock.Advance(10 * time.Second)
	assert.True(t, b.Allow())
	assert.Equal(t, StateHalfOpen, b.State())

	assert.False(t, b.RecordSuccess().Closed)
	assert.True(t, b.RecordSuccess().Closed)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("flespi", WithFailureThreshold(1), WithCooldown(time.Second), WithClock(clock))
	b.RecordFailure()
	clock.Advance(time.Second)
	assert.True(t, b.Allow())

	assert.True(t, b.RecordFailure().Opened)
	assert.False(t, b.Allow())
	assert.Equal(t, "open", b.State().String())
}

func TestBreakerIgnoresResultsWhileOpen(t *testing.T) {
	clock := clockwork.NewFakeClock()
	b := New("flespi", WithFailureThreshold(1), WithCooldown(time.Minute), WithClock(clock))
	assert.True(t, b.RecordFailure().Opened)

	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.Equal(t, StateChange{}, b.RecordSuccess())

	clock.Advance(59 * time.Second)
	assert.False(t, b.Allow())
	clock.Advance(time.Second)
	assert.True(t, b.Allow())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half_open", StateHalfOpen.String())
	assert.Equal(t, "closed", State(42).String())
}
