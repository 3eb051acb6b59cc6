// Package requestcontext carries request-scoped values (request ID, caller
// identity, request time) through context.Context.
package requestcontext

import (
	"context"
	"time"

	id "coldchain/pkg/domain"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyUserID
	keyClientIP
	keyUserAgent
	keyNow
	keyOrganizationID
	keyRole
	keySessionID
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(keyRequestID).(string)
	return v
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

// UserID returns the authenticated caller, or a nil ID when unauthenticated.
func UserID(ctx context.Context) id.UserID {
	v, _ := ctx.Value(keyUserID).(id.UserID)
	return v
}

func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return context.WithValue(ctx, keySessionID, sessionID)
}

// SessionID returns the refresh session the access token was issued under.
func SessionID(ctx context.Context) id.SessionID {
	v, _ := ctx.Value(keySessionID).(id.SessionID)
	return v
}

// WithMembership records the caller's active organization and role within it.
func WithMembership(ctx context.Context, orgID id.OrganizationID, role string) context.Context {
	ctx = context.WithValue(ctx, keyOrganizationID, orgID)
	return context.WithValue(ctx, keyRole, role)
}

// OrganizationID returns the caller's active organization, or a nil ID.
func OrganizationID(ctx context.Context) id.OrganizationID {
	v, _ := ctx.Value(keyOrganizationID).(id.OrganizationID)
	return v
}

func Role(ctx context.Context) string {
	v, _ := ctx.Value(keyRole).(string)
	return v
}

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(keyClientIP).(string)
	return v
}

func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, keyUserAgent, ua)
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(keyUserAgent).(string)
	return v
}

// WithNow pins the request time so every layer handling one request agrees on "now".
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, keyNow, now)
}

// Now returns the pinned request time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(keyNow).(time.Time); ok {
		return v
	}
	return time.Now()
}
