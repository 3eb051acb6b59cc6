// Package metadata records who is calling: client IP, user agent and the
// request time. Forwarding headers are honoured only from trusted proxies so
// per-IP rate limits cannot be dodged by spoofing X-Forwarded-For.
package metadata

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/jonboulle/clockwork"

	"coldchain/pkg/requestcontext"
)

// maxForwardedLength caps X-Forwarded-For and X-Real-IP before parsing.
const maxForwardedLength = 512

type Middleware struct {
	trusted []netip.Prefix
	clock   clockwork.Clock
}

type Option func(*Middleware)

// WithTrustedProxies lists the networks allowed to set forwarding headers.
// Without it forwarding headers are ignored.
func WithTrustedProxies(prefixes []netip.Prefix) Option {
	return func(m *Middleware) {
		m.trusted = prefixes
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(m *Middleware) {
		m.clock = clock
	}
}

func New(opts ...Option) *Middleware {
	m := &Middleware{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = requestcontext.WithClientIP(ctx, m.clientIP(r))
		ctx = requestcontext.WithUserAgent(ctx, r.UserAgent())
		ctx = requestcontext.WithNow(ctx, m.clock.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remote := remoteIP(r.RemoteAddr)
	if remote == "" {
		return "unknown"
	}
	if !m.isTrusted(remote) {
		return remote
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if len(xff) > maxForwardedLength {
			return remote
		}
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
		return remote
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" && len(xri) <= maxForwardedLength {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.String()
		}
	}
	return remote
}

func (m *Middleware) isTrusted(ip string) bool {
	if len(m.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteIP(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}
