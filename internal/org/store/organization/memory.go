package organization

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

// InMemory stores organizations and each user's remembered active
// organization for tests and local runs.
type InMemory struct {
	mu     sync.RWMutex
	orgs   map[id.OrganizationID]*models.Organization
	active map[id.UserID]id.OrganizationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		orgs:   make(map[id.OrganizationID]*models.Organization),
		active: make(map[id.UserID]id.OrganizationID),
	}
}

func (s *InMemory) Create(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orgs[org.ID]; exists {
		return fmt.Errorf("organization exists: %w", sentinel.ErrAlreadyUsed)
	}
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *InMemory) Update(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orgs[org.ID]; !exists {
		return sentinel.ErrNotFound
	}
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, orgID id.OrganizationID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[orgID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (s *InMemory) SetActiveOrganization(_ context.Context, userID id.UserID, orgID id.OrganizationID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[orgID]; !ok {
		return sentinel.ErrNotFound
	}
	s.active[userID] = orgID
	return nil
}

func (s *InMemory) FindActiveOrganization(_ context.Context, userID id.UserID) (id.OrganizationID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orgID, ok := s.active[userID]
	if !ok {
		return id.OrganizationID{}, sentinel.ErrNotFound
	}
	return orgID, nil
}
