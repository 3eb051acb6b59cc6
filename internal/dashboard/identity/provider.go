// Package identity signs the dispatcher in against the backend, keeps the
// token pair fresh and publishes authentication events.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	authcontract "coldchain/contracts/auth"
	contract "coldchain/contracts/session"
	"coldchain/internal/dashboard/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/sentinel"
)

// Backend is the auth API surface the provider calls.
type Backend interface {
	SignUp(ctx context.Context, in authcontract.SignUp) (*authcontract.TokenResponse, error)
	SignIn(ctx context.Context, email, password string) (*authcontract.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*authcontract.TokenResponse, error)
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, in authcontract.ProfileUpdate) (*contract.User, error)
}

// CredentialStore persists credentials between runs. Load returns
// sentinel.ErrNotFound when nothing is saved.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(c *Credentials) error
	Clear() error
}

// Credentials is a signed-in token pair.
type Credentials struct {
	UserID       id.UserID `yaml:"user_id"`
	AccessToken  string    `yaml:"access_token"`
	RefreshToken string    `yaml:"refresh_token"`
	ExpiresAt    time.Time `yaml:"expires_at"`
}

func (c *Credentials) authSession() *session.AuthSession {
	if c == nil {
		return nil
	}
	return &session.AuthSession{UserID: c.UserID, ExpiresAt: c.ExpiresAt}
}

// Provider owns the credentials. It is safe for concurrent use.
type Provider struct {
	backend Backend
	creds   CredentialStore
	clock   clockwork.Clock
	logger  *slog.Logger
	skew    time.Duration

	mu      sync.Mutex
	current *Credentials
	refresh chan struct{}

	subMu  sync.Mutex
	subs   map[int]chan session.Event
	nextID int
}

type Option func(*Provider)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(p *Provider) {
		p.clock = c
	}
}

// WithRefreshSkew sets how long before expiry a token is rotated.
func WithRefreshSkew(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.skew = d
		}
	}
}

func New(backend Backend, creds CredentialStore, opts ...Option) *Provider {
	p := &Provider{
		backend: backend,
		creds:   creds,
		clock:   clockwork.NewRealClock(),
		logger:  slog.Default(),
		skew:    time.Minute,
		refresh: make(chan struct{}, 1),
		subs:    make(map[int]chan session.Event),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe returns a channel of events in emission order. The channel is
// buffered so publishing does not wait for a slow consumer.
func (p *Provider) Subscribe() (<-chan session.Event, func()) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	subID := p.nextID
	p.nextID++
	ch := make(chan session.Event, 32)
	p.subs[subID] = ch
	return ch, func() {
		p.subMu.Lock()
		defer p.subMu.Unlock()
		if _, ok := p.subs[subID]; ok {
			delete(p.subs, subID)
			close(ch)
		}
	}
}

func (p *Provider) emit(ev session.Event) {
	p.subMu.Lock()
	defer p.subMu.Unlock()
	for subID, ch := range p.subs {
		select {
		case ch <- ev:
		default:
			p.logger.Warn("auth event subscriber is not keeping up, dropping it", "event", session.NameOf(ev))
			delete(p.subs, subID)
			close(ch)
		}
	}
}

// Restore loads saved credentials and emits InitialSession. Expired
// credentials are refreshed first; if that fails the saved pair is dropped.
func (p *Provider) Restore(ctx context.Context) error {
	saved, err := p.creds.Load()
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return err
	}
	if saved == nil {
		p.emit(session.InitialSession{})
		return nil
	}

	p.mu.Lock()
	p.current = saved
	p.mu.Unlock()

	if p.expiring(saved) {
		if _, err := p.rotate(ctx, saved); err != nil {
			p.logger.InfoContext(ctx, "saved session could not be refreshed", "error", err)
			p.emit(session.InitialSession{})
			return nil
		}
	}
	p.emit(session.InitialSession{Session: p.Current().authSession()})
	return nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	resp, err := p.backend.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	c := p.store(resp)
	p.emit(session.SignedIn{Session: c.authSession()})
	return nil
}

func (p *Provider) SignUp(ctx context.Context, in authcontract.SignUp) error {
	resp, err := p.backend.SignUp(ctx, in)
	if err != nil {
		return err
	}
	c := p.store(resp)
	p.emit(session.SignedIn{Session: c.authSession()})
	return nil
}

// SignOut revokes the session at the backend when possible and always drops
// the local credentials.
func (p *Provider) SignOut(ctx context.Context) error {
	var remoteErr error
	if p.Current() != nil {
		remoteErr = p.backend.SignOut(ctx)
		if remoteErr != nil {
			p.logger.WarnContext(ctx, "remote sign-out failed", "error", remoteErr)
		}
	}
	p.drop()
	p.emit(session.SignedOut{})
	return remoteErr
}

// UpdateProfile changes the signed-in user's profile and emits UserUpdated.
func (p *Provider) UpdateProfile(ctx context.Context, in authcontract.ProfileUpdate) (*contract.User, error) {
	user, err := p.backend.UpdateProfile(ctx, in)
	if err != nil {
		return nil, err
	}
	p.emit(session.UserUpdated{Session: p.Current().authSession()})
	return user, nil
}

// Current returns a copy of the held credentials, or nil.
func (p *Provider) Current() *Credentials {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	c := *p.current
	return &c
}

// AccessToken returns a usable access token, rotating the pair first when
// it is about to expire.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	c := p.Current()
	if c == nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	if !p.expiring(c) {
		return c.AccessToken, nil
	}
	rotated, err := p.Refresh(ctx)
	if err != nil {
		return "", err
	}
	return rotated.AccessToken, nil
}

// Refresh rotates the token pair and emits TokenRefreshed. A rejected
// refresh token drops the credentials and emits TokenRefreshed without a
// session.
func (p *Provider) Refresh(ctx context.Context) (*Credentials, error) {
	c := p.Current()
	if c == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}
	rotated, err := p.rotate(ctx, c)
	if err != nil {
		return nil, err
	}
	p.emit(session.TokenRefreshed{Session: rotated.authSession()})
	return rotated, nil
}

func (p *Provider) rotate(ctx context.Context, c *Credentials) (*Credentials, error) {
	resp, err := p.backend.Refresh(ctx, c.RefreshToken)
	if err != nil {
		if dErrors.HasAnyCode(err, dErrors.CodeUnauthorized, dErrors.CodeBadRequest) {
			p.drop()
			p.emit(session.TokenRefreshed{})
		}
		return nil, err
	}
	return p.store(resp), nil
}

func (p *Provider) store(resp *authcontract.TokenResponse) *Credentials {
	c := &Credentials{
		UserID:       resp.UserID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    p.clock.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}
	p.mu.Lock()
	p.current = c
	p.mu.Unlock()
	if err := p.creds.Save(c); err != nil {
		p.logger.Warn("failed to persist credentials", "error", err)
	}
	p.kick()
	out := *c
	return &out
}

func (p *Provider) drop() {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	if err := p.creds.Clear(); err != nil {
		p.logger.Warn("failed to clear saved credentials", "error", err)
	}
	p.kick()
}

// kick wakes the auto-refresh loop so it re-reads the expiry.
func (p *Provider) kick() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

func (p *Provider) expiring(c *Credentials) bool {
	return !p.clock.Now().Before(c.ExpiresAt.Add(-p.skew))
}

// AutoRefresh rotates the token pair shortly before it expires until ctx is
// done. Transient failures are retried after retryAfter.
func (p *Provider) AutoRefresh(ctx context.Context, retryAfter time.Duration) {
	for {
		wait := time.Duration(-1)
		if c := p.Current(); c != nil {
			wait = c.ExpiresAt.Add(-p.skew).Sub(p.clock.Now())
			if wait < 0 {
				wait = 0
			}
		}

		var (
			timer clockwork.Timer
			fire  <-chan time.Time
		)
		if wait >= 0 {
			timer = p.clock.NewTimer(wait)
			fire = timer.Chan()
		}
		fired := false
		select {
		case <-ctx.Done():
		case <-p.refresh:
		case <-fire:
			fired = true
		}
		if timer != nil {
			timer.Stop()
		}
		if ctx.Err() != nil {
			return
		}
		if !fired {
			continue
		}

		if _, err := p.Refresh(ctx); err != nil {
			if p.Current() == nil {
				continue
			}
			p.logger.WarnContext(ctx, "token refresh failed, retrying", "error", err, "retry_after", retryAfter)
			select {
			case <-ctx.Done():
				return
			case <-p.refresh:
			case <-p.clock.After(retryAfter):
			}
		}
	}
}
