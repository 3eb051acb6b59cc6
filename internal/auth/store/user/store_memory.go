package user

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

// InMemoryUserStore matches the Postgres store's behaviour: emails are unique
// ignoring case, misses are sentinel.ErrNotFound, and callers get copies.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	byEmail map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func emailKey(email string) string { return strings.ToLower(email) }

func notFound(what string) error {
	return fmt.Errorf("user %s: %w", what, sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(u.Email)
	if _, taken := s.byEmail[key]; taken {
		return fmt.Errorf("email %s: %w", u.Email, sentinel.ErrAlreadyUsed)
	}
	s.users[u.ID] = *u
	s.byEmail[key] = u.ID
	return nil
}

// Update replaces the stored user. The email is immutable once created.
func (s *InMemoryUserStore) Update(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return notFound(u.ID.String())
	}
	s.users[u.ID] = *u
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, notFound(userID.String())
	}
	return &u, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byEmail[emailKey(email)]
	if !ok {
		return nil, notFound(email)
	}
	u := s.users[userID]
	return &u, nil
}
