// Package session keeps the dispatcher client's view of who is signed in and
// which organization they act for, and keeps it in step with the backend.
package session

import (
	"sync"

	contract "coldchain/contracts/session"
)

// Store is the process-wide holder of the current session. Every write bumps
// the epoch so a fetch that started before a sign-out can tell its result is
// stale.
type Store struct {
	mu      sync.RWMutex
	current *contract.Session
	epoch   uint64
	watch   []chan<- *contract.Session
}

func NewStore() *Store {
	return &Store{}
}

// Current returns a copy of the held session, or nil when signed out.
func (s *Store) Current() *contract.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Authenticated reports whether the store holds a session.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Epoch identifies the current store contents.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// Set replaces the session wholesale. A session without a membership for a
// non-operator is refused: the store is cleared and ErrNoMembership
// returned.
func (s *Store) Set(sess *contract.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(sess)
}

// SetIf replaces the session only if nothing was written since epoch. It
// reports whether the write happened.
func (s *Store) SetIf(epoch uint64, sess *contract.Session) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false, nil
	}
	return true, s.setLocked(sess)
}

// Clear drops the session.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(nil)
}

// ClearIf drops the session only if nothing was written since epoch.
func (s *Store) ClearIf(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.writeLocked(nil)
	return true
}

// Watch delivers every new store value to ch until the returned func is
// called. Slow watchers miss intermediate values.
func (s *Store) Watch(ch chan<- *contract.Session) (cancel func()) {
	s.mu.Lock()
	s.watch = append(s.watch, ch)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watch {
			if w == ch {
				s.watch = append(s.watch[:i], s.watch[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) setLocked(sess *contract.Session) error {
	if err := sess.Validate(); err != nil {
		s.writeLocked(nil)
		return err
	}
	s.writeLocked(sess.Clone())
	return nil
}

func (s *Store) writeLocked(sess *contract.Session) {
	s.current = sess
	s.epoch++
	for _, w := range s.watch {
		select {
		case w <- sess.Clone():
		default:
		}
	}
}
