// Package protocols caches the Flespi protocol catalog.
package protocols

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"coldchain/internal/telematics/models"
	"coldchain/pkg/platform/sentinel"
)

// InMemory is a single-process cache used when redis is not configured.
type InMemory struct {
	mu        sync.RWMutex
	protocols []models.Protocol
	expiresAt time.Time
	clock     clockwork.Clock
}

func NewInMemory(clock clockwork.Clock) *InMemory {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &InMemory{clock: clock}
}

func (c *InMemory) Get(_ context.Context) ([]models.Protocol, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.protocols == nil || !c.clock.Now().Before(c.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.Protocol(nil), c.protocols...), nil
}

func (c *InMemory) Set(_ context.Context, protocols []models.Protocol, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.protocols = append(make([]models.Protocol, 0, len(protocols)), protocols...)
	c.expiresAt = c.clock.Now().Add(ttl)
	return nil
}
