package membership

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

// InMemory stores memberships and invitations in memory. Like the database
// it allows at most one membership per user within an organization.
type InMemory struct {
	mu          sync.RWMutex
	memberships map[id.MembershipID]*models.Membership
}

func NewInMemory() *InMemory {
	return &InMemory{memberships: make(map[id.MembershipID]*models.Membership)}
}

// linkedElsewhere reports whether another membership already binds m's user
// to m's organization. Caller holds the lock.
func (s *InMemory) linkedElsewhere(m *models.Membership) bool {
	if m.UserID == nil {
		return false
	}
	for _, other := range s.memberships {
		if other.ID != m.ID && other.OrganizationID == m.OrganizationID &&
			other.UserID != nil && *other.UserID == *m.UserID {
			return true
		}
	}
	return false
}

func (s *InMemory) Create(_ context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.memberships[m.ID]; exists || s.linkedElsewhere(m) {
		return fmt.Errorf("membership exists: %w", sentinel.ErrAlreadyUsed)
	}
	s.memberships[m.ID] = m.Clone()
	return nil
}

func (s *InMemory) Update(_ context.Context, m *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.memberships[m.ID]; !exists {
		return sentinel.ErrNotFound
	}
	if s.linkedElsewhere(m) {
		return fmt.Errorf("user already a member: %w", sentinel.ErrAlreadyUsed)
	}
	s.memberships[m.ID] = m.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, orgID id.OrganizationID, membershipID id.MembershipID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.memberships[membershipID]
	if !ok || m.OrganizationID != orgID {
		return nil, sentinel.ErrNotFound
	}
	return m.Clone(), nil
}

func (s *InMemory) FindByUser(_ context.Context, orgID id.OrganizationID, userID id.UserID) (*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.memberships {
		if m.OrganizationID == orgID && m.UserID != nil && *m.UserID == userID {
			return m.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByUser(_ context.Context, userID id.UserID) ([]*models.Membership, error) {
	return s.list(func(m *models.Membership) bool {
		return m.UserID != nil && *m.UserID == userID
	}, false), nil
}

func (s *InMemory) ListByOrganization(_ context.Context, orgID id.OrganizationID) ([]*models.Membership, error) {
	return s.list(func(m *models.Membership) bool {
		return m.OrganizationID == orgID
	}, false), nil
}

// ListPendingByEmail returns unaccepted, non-inactive invitations for email,
// most recent first.
func (s *InMemory) ListPendingByEmail(_ context.Context, email string) ([]*models.Membership, error) {
	email = strings.ToLower(email)
	return s.list(func(m *models.Membership) bool {
		return m.IsPending() && m.Email == email
	}, true), nil
}

// ListSuspendedSince returns memberships suspended after since, oldest
// suspension first.
func (s *InMemory) ListSuspendedSince(_ context.Context, since time.Time) ([]*models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Membership
	for _, m := range s.memberships {
		if m.Status == session.MembershipSuspended && m.SuspendedAt != nil && m.SuspendedAt.After(since) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SuspendedAt.Before(*out[j].SuspendedAt)
	})
	return out, nil
}

func (s *InMemory) list(match func(*models.Membership) bool, newestFirst bool) []*models.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Membership, 0)
	for _, m := range s.memberships {
		if match(m) {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
