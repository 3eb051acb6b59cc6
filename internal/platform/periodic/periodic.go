// Package periodic drives the background workers.
package periodic

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Every calls job on each tick of interval until ctx is done, then returns
// ctx.Err(). A failed run is logged under name and the loop keeps going.
func Every(ctx context.Context, clock clockwork.Clock, interval time.Duration, log *slog.Logger, name string, job func(context.Context) error) error {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if err := job(ctx); err != nil {
				log.ErrorContext(ctx, "periodic job failed", "job", name, "error", err)
			}
		}
	}
}

// Discard adapts a RunOnce style function that also reports a count.
func Discard(fn func(context.Context) (int, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		_, err := fn(ctx)
		return err
	}
}
