package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"coldchain/internal/auth/models"
	id "coldchain/pkg/domain"
	"coldchain/pkg/platform/sentinel"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested session does not exist
// - Pass validate callback errors through unchanged from Execute
// - Return wrapped errors with context for infrastructure failures
// InMemorySessionStore stores refresh sessions in memory for tests/dev.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.RefreshSession
	byHash   map[string]id.SessionID
}

// New constructs an empty in-memory session store.
func New() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[id.SessionID]*models.RefreshSession),
		byHash:   make(map[string]id.SessionID),
	}
}

func (s *InMemorySessionStore) Create(_ context.Context, session *models.RefreshSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *session
	s.sessions[session.ID] = &cp
	s.byHash[session.TokenHash] = session.ID
	return nil
}

func (s *InMemorySessionStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.RefreshSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if session, ok := s.sessions[sessionID]; ok {
		cp := *session
		return &cp, nil
	}
	return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
}

func (s *InMemorySessionStore) FindByTokenHash(_ context.Context, hash string) (*models.RefreshSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionID, ok := s.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	cp := *s.sessions[sessionID]
	return &cp, nil
}

// Execute atomically validates and mutates a session. A changed token hash
// moves the lookup index with it.
func (s *InMemorySessionStore) Execute(_ context.Context, sessionID id.SessionID, validate func(*models.RefreshSession) error, mutate func(*models.RefreshSession)) (*models.RefreshSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", sentinel.ErrNotFound)
	}
	working := *current
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	if working.TokenHash != current.TokenHash {
		delete(s.byHash, current.TokenHash)
		s.byHash[working.TokenHash] = sessionID
	}
	s.sessions[sessionID] = &working
	out := working
	return &out, nil
}

func (s *InMemorySessionStore) RevokeAllForUser(_ context.Context, userID id.UserID, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	revoked := 0
	for _, session := range s.sessions {
		if session.UserID == userID && !session.IsRevoked() {
			session.Revoke(now)
			revoked++
		}
	}
	return revoked, nil
}

// DeleteExpired removes sessions that expired or were revoked before now.
func (s *InMemorySessionStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key, session := range s.sessions {
		if !session.ExpiresAt.After(now) || (session.RevokedAt != nil && session.RevokedAt.Before(now)) {
			delete(s.byHash, session.TokenHash)
			delete(s.sessions, key)
			deleted++
		}
	}
	return deleted, nil
}
