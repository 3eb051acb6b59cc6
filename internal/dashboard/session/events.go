package session

import (
	"time"

	id "coldchain/pkg/domain"
)

// AuthSession is the identity provider's view of a sign-in: who, and until
// when the access token is good. It carries no organization context.
type AuthSession struct {
	UserID    id.UserID
	ExpiresAt time.Time
}

// Event is an authentication lifecycle event. The set is closed: every kind
// is dispatched through EventVisitor, so a new kind does not compile until
// each visitor handles it.
type Event interface {
	Accept(v EventVisitor)
}

type EventVisitor interface {
	VisitInitialSession(InitialSession)
	VisitSignedIn(SignedIn)
	VisitSignedOut(SignedOut)
	VisitTokenRefreshed(TokenRefreshed)
	VisitUserUpdated(UserUpdated)
}

// InitialSession reports the session recovered at start-up, if any.
type InitialSession struct{ Session *AuthSession }

type SignedIn struct{ Session *AuthSession }

type SignedOut struct{}

// TokenRefreshed reports a token rotation. A nil Session means the rotation
// failed.
type TokenRefreshed struct{ Session *AuthSession }

type UserUpdated struct{ Session *AuthSession }

func (e InitialSession) Accept(v EventVisitor) { v.VisitInitialSession(e) }
func (e SignedIn) Accept(v EventVisitor)       { v.VisitSignedIn(e) }
func (e SignedOut) Accept(v EventVisitor)      { v.VisitSignedOut(e) }
func (e TokenRefreshed) Accept(v EventVisitor) { v.VisitTokenRefreshed(e) }
func (e UserUpdated) Accept(v EventVisitor)    { v.VisitUserUpdated(e) }

// Action is what the listener does in response to an event.
type Action int

const (
	ActionNone Action = iota
	ActionClear
	ActionSync
)

func (a Action) String() string {
	switch a {
	case ActionClear:
		return "clear"
	case ActionSync:
		return "sync"
	default:
		return "none"
	}
}

// Decide maps an event onto an action given whether the store already holds
// a session. SignedIn and InitialSession re-sync only when it does not,
// since providers repeat SignedIn when a backgrounded client resumes.
func Decide(ev Event, authenticated bool) Action {
	d := &decision{authenticated: authenticated}
	ev.Accept(d)
	return d.action
}

type decision struct {
	authenticated bool
	action        Action
}

func (d *decision) VisitInitialSession(e InitialSession) {
	if e.Session == nil {
		d.action = ActionClear
		return
	}
	d.syncUnlessAuthenticated()
}

func (d *decision) VisitSignedIn(SignedIn) {
	d.syncUnlessAuthenticated()
}

func (d *decision) VisitSignedOut(SignedOut) {
	d.action = ActionClear
}

func (d *decision) VisitTokenRefreshed(e TokenRefreshed) {
	if e.Session == nil {
		d.action = ActionClear
	}
}

func (d *decision) VisitUserUpdated(UserUpdated) {
	d.action = ActionSync
}

func (d *decision) syncUnlessAuthenticated() {
	if !d.authenticated {
		d.action = ActionSync
	}
}

// eventName is used for logging.
type eventName string

func (n *eventName) VisitInitialSession(InitialSession) { *n = "initial_session" }
func (n *eventName) VisitSignedIn(SignedIn)             { *n = "signed_in" }
func (n *eventName) VisitSignedOut(SignedOut)           { *n = "signed_out" }
func (n *eventName) VisitTokenRefreshed(TokenRefreshed) { *n = "token_refreshed" }
func (n *eventName) VisitUserUpdated(UserUpdated)       { *n = "user_updated" }

// NameOf returns the wire name of an event kind.
func NameOf(ev Event) string {
	var n eventName
	ev.Accept(&n)
	return string(n)
}
