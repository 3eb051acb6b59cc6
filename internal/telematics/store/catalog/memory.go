// Package catalog holds the last synced hardware catalog.
package catalog

import (
	"context"
	"sync"

	"coldchain/internal/telematics/models"
	"coldchain/pkg/platform/sentinel"
)

// InMemory swaps whole catalog snapshots so readers never see a partial sync.
type InMemory struct {
	mu      sync.RWMutex
	current *models.Catalog
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Replace(_ context.Context, c *models.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = c
	return nil
}

// DeviceTypes returns the device types of protocolID from the last sync.
func (s *InMemory) DeviceTypes(_ context.Context, protocolID int64) ([]models.DeviceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, sentinel.ErrNotFound
	}
	types, ok := s.current.DeviceTypes[protocolID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]models.DeviceType(nil), types...), nil
}
