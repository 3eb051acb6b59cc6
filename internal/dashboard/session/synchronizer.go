package session

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	contract "coldchain/contracts/session"
	id "coldchain/pkg/domain"
)

// ErrSuperseded is returned by Sync when the store changed while the fetch
// was in flight. The fetched session is dropped.
var ErrSuperseded = errors.New("session changed during sync")

// Fetcher is the backend surface the synchronizer needs.
type Fetcher interface {
	Session(ctx context.Context) (*contract.Session, error)
	SwitchOrganization(ctx context.Context, orgID id.OrganizationID) (*contract.Session, error)
}

// Synchronizer is the single entry point that pulls the session from the
// backend into the store.
type Synchronizer struct {
	fetcher Fetcher
	store   *Store
	group   singleflight.Group
	timeout time.Duration
	logger  *slog.Logger
}

type SyncOption func(*Synchronizer)

func WithSyncLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithFetchTimeout bounds one backend fetch. The fetch is shared between
// callers, so it does not follow any single caller's context deadline.
func WithFetchTimeout(d time.Duration) SyncOption {
	return func(s *Synchronizer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func NewSynchronizer(fetcher Fetcher, store *Store, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		fetcher: fetcher,
		store:   store,
		timeout: 15 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync fetches the session and replaces the store contents. Any failure
// clears the store. Concurrent callers that see the same store epoch share
// one fetch. If the store was written while the fetch was in flight, the
// result is dropped.
func (s *Synchronizer) Sync(ctx context.Context) (*contract.Session, error) {
	epoch := s.store.Epoch()
	ch := s.group.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		return s.sync(context.WithoutCancel(ctx), epoch)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*contract.Session).Clone(), nil
	}
}

func (s *Synchronizer) sync(ctx context.Context, epoch uint64) (*contract.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.fetcher.Session(ctx)
	if err != nil {
		if s.store.ClearIf(epoch) {
			s.logger.WarnContext(ctx, "session sync failed, signed out locally", "error", err)
		}
		return nil, err
	}

	written, err := s.store.SetIf(epoch, sess)
	if err != nil {
		s.logger.WarnContext(ctx, "session has no membership, access denied", userAttr(sess))
		return nil, err
	}
	if !written {
		s.logger.DebugContext(ctx, "discarding stale session sync")
		return nil, ErrSuperseded
	}
	return sess, nil
}

func userAttr(sess *contract.Session) slog.Attr {
	if sess == nil {
		return slog.String("user_id", "")
	}
	return slog.String("user_id", sess.User.ID.String())
}

// SwitchOrganization asks the backend to change the active organization and
// replaces the store with the returned session. On failure the store is
// left as it was.
func (s *Synchronizer) SwitchOrganization(ctx context.Context, orgID id.OrganizationID) (*contract.Session, error) {
	sess, err := s.fetcher.SwitchOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(sess); err != nil {
		return nil, err
	}
	return sess.Clone(), nil
}
