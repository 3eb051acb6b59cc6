// Package publisher timestamps audit events and hands them to a Store,
// either inline or through a bounded queue drained by one goroutine.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"

	dErrors "coldchain/pkg/domain-errors"
	audit "coldchain/pkg/platform/audit"
)

type Publisher struct {
	store   audit.Store
	queue   chan audit.Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
	logger  *slog.Logger
	clock   clockwork.Clock
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events. When the queue is full Emit
// drops the event rather than block the request that produced it.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan audit.Event, size)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithClock(clock clockwork.Clock) PublisherOption {
	return func(p *Publisher) {
		p.clock = clock
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit stamps event with the current time when it has none and stores it.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.clock.Now()
	}
	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	p.dropped.Add(1)
	p.logger.WarnContext(ctx, "audit queue full, event dropped",
		"action", event.Action,
		"organization_id", event.OrganizationID,
	)
	return dErrors.New(dErrors.CodeUnavailable, "audit queue full")
}

// Dropped counts events rejected because the queue was full.
func (p *Publisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.queue {
		// The request that emitted the event may be long gone.
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("failed to store audit event",
				"error", err,
				"action", event.Action,
				"user_id", event.UserID,
			)
		}
	}
}

// Close stops accepting queued events and waits until the queue is empty.
// It is safe to call more than once.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	p.once.Do(func() {
		close(p.queue)
		<-p.done
	})
}
