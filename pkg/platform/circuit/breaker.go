// Package circuit stops calling a vendor API that keeps failing. The breaker
// opens after a run of consecutive failures, rejects calls for a cooldown,
// then admits probe calls and closes once enough of them succeed in a row.
package circuit

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half_open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "closed"
	}
	return stateNames[s]
}

// StateChange tells the caller whether a Record call flipped the breaker, so
// it can log the transition once.
type StateChange struct {
	Opened bool
	Closed bool
}

type Breaker struct {
	name             string
	failureThreshold int
	successThreshold int
	cooldown         time.Duration
	clock            clockwork.Clock

	mu       sync.Mutex
	state    State
	streak   int
	openedAt time.Time
}

type Option func(*Breaker)

// WithFailureThreshold sets how many failures in a row open the breaker.
// The default is 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets how many probe successes in a row close it
// again. The default is 2.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.successThreshold = n
		}
	}
}

// WithCooldown sets how long an open breaker rejects calls. The default is 30s.
func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(b *Breaker) {
		b.clock = c
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		failureThreshold: 5,
		successThreshold: 2,
		cooldown:         30 * time.Second,
		clock:            clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

// Allow reports whether a call may go out now. The first Allow after the
// cooldown moves an open breaker to half-open.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && !b.clock.Now().Before(b.openedAt.Add(b.cooldown)) {
		b.moveTo(StateHalfOpen)
	}
	return b.state != StateOpen
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// RecordFailure counts a failed call. Any failed probe reopens at once.
func (b *Breaker) RecordFailure() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateOpen:
		return StateChange{}
	case StateHalfOpen:
		b.moveTo(StateOpen)
		return StateChange{Opened: true}
	}
	b.streak++
	if b.streak < b.failureThreshold {
		return StateChange{}
	}
	b.moveTo(StateOpen)
	return StateChange{Opened: true}
}

// RecordSuccess counts a successful call. While closed it clears the
// failure streak.
func (b *Breaker) RecordSuccess() StateChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateClosed:
		b.streak = 0
		return StateChange{}
	case StateOpen:
		return StateChange{}
	}
	b.streak++
	if b.streak < b.successThreshold {
		return StateChange{}
	}
	b.moveTo(StateClosed)
	return StateChange{Closed: true}
}

// moveTo switches state and restarts the streak, which counts failures when
// closed and successes when half-open.
func (b *Breaker) moveTo(s State) {
	b.state = s
	b.streak = 0
	if s == StateOpen {
		b.openedAt = b.clock.Now()
	}
}
