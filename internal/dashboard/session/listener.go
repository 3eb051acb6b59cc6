package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	contract "coldchain/contracts/session"
)

// ErrAlreadyStarted is returned when Start is called on a running listener.
var ErrAlreadyStarted = errors.New("listener already started")

// EventSource delivers authentication events in the order they happened.
type EventSource interface {
	Subscribe() (events <-chan Event, unsubscribe func())
}

// Syncer re-fetches the session into the store.
type Syncer interface {
	Sync(ctx context.Context) (*contract.Session, error)
}

// Listener applies authentication events to the store. Events are handled
// one at a time on the listener's own goroutine.
type Listener struct {
	source EventSource
	syncer Syncer
	store  *Store
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type ListenerOption func(*Listener)

func WithListenerLogger(logger *slog.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

func NewListener(source EventSource, syncer Syncer, store *Store, opts ...ListenerOption) *Listener {
	l := &Listener{
		source: source,
		syncer: syncer,
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start subscribes to the source and begins handling events until ctx is
// done or Stop is called.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return ErrAlreadyStarted
	}

	events, unsubscribe := l.source.Subscribe()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		defer l.release(done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				l.Handle(ctx, ev)
			}
		}
	}()
	return nil
}

// Stop ends the event loop and waits for the event being handled, if any.
// The listener may be started again afterwards.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// release forgets a loop that ended on its own so Start can run again.
func (l *Listener) release(done chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != done {
		return
	}
	l.cancel()
	l.cancel, l.done = nil, nil
}

// Handle applies one event and returns the action taken.
func (l *Listener) Handle(ctx context.Context, ev Event) Action {
	action := Decide(ev, l.store.Authenticated())
	l.logger.DebugContext(ctx, "auth event", "event", NameOf(ev), "action", action.String())

	switch action {
	case ActionClear:
		l.store.Clear()
	case ActionSync:
		if _, err := l.syncer.Sync(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
			l.logger.WarnContext(ctx, "session sync after auth event failed", "event", NameOf(ev), "error", err)
		}
	}
	return action
}
