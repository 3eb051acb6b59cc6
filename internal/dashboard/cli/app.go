// Package cli implements dispatchctl, the dispatcher's command line client.
// Every command runs the same session stack as a long-lived client: the
// identity provider emits auth events, the listener turns them into store
// updates, and commands read the resulting session.
package cli

import (
	"context"
	"errors"
	"log/slog"

	contract "coldchain/contracts/session"
	"coldchain/internal/dashboard/backend"
	"coldchain/internal/dashboard/identity"
	"coldchain/internal/dashboard/session"
)

var (
	errNotSignedIn   = errors.New("not signed in or no active organization membership; run dispatchctl login")
	errSessionNotSet = errors.New("timed out waiting for the session")
)

// App is the client stack shared by the commands of one invocation.
type App struct {
	Profile  Profile
	Client   *backend.Client
	Provider *identity.Provider
	Store    *session.Store
	Sync     *session.Synchronizer
	Listener *session.Listener
	logger   *slog.Logger
}

// NewApp wires the backend client, identity provider and session stack.
func NewApp(p Profile, logger *slog.Logger) *App {
	client := backend.New(backend.Config{BaseURL: p.BaseURL, Timeout: p.Timeout}, backend.WithLogger(logger))
	provider := identity.New(client, identity.NewFileStore(p.CredentialsFile), identity.WithLogger(logger))
	client.SetTokenSource(provider)

	store := session.NewStore()
	syncer := session.NewSynchronizer(client, store,
		session.WithSyncLogger(logger),
		session.WithFetchTimeout(p.Timeout),
	)
	return &App{
		Profile:  p,
		Client:   client,
		Provider: provider,
		Store:    store,
		Sync:     syncer,
		Listener: session.NewListener(provider, syncer, store, session.WithListenerLogger(logger)),
		logger:   logger,
	}
}

// Close stops the listener.
func (a *App) Close() {
	a.Listener.Stop()
}

// Restore loads saved credentials and returns the synced session, or nil
// when there is none.
func (a *App) Restore(ctx context.Context) (*contract.Session, error) {
	return a.await(ctx, func() error { return a.Provider.Restore(ctx) })
}

// RequireSession is Restore for commands that need an active membership.
func (a *App) RequireSession(ctx context.Context) (*contract.Session, error) {
	sess, err := a.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errNotSignedIn
	}
	return sess, nil
}

// await runs trigger and waits for the listener to write the store once.
func (a *App) await(ctx context.Context, trigger func() error) (*contract.Session, error) {
	if err := a.Listener.Start(ctx); err != nil && !errors.Is(err, session.ErrAlreadyStarted) {
		return nil, err
	}

	updates := make(chan *contract.Session, 1)
	cancel := a.Store.Watch(updates)
	defer cancel()

	if err := trigger(); err != nil {
		return nil, err
	}

	ctx, stop := context.WithTimeout(ctx, a.Profile.Timeout)
	defer stop()
	select {
	case sess := <-updates:
		return sess, nil
	case <-ctx.Done():
		return nil, errSessionNotSet
	}
}
