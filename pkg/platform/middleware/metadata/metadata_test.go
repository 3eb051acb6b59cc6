package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"coldchain/pkg/requestcontext"
)

func capture(mw *Middleware, req *http.Request) context.Context {
	var ctx context.Context
	mw.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	})).ServeHTTP(httptest.NewRecorder(), req)
	return ctx
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	tests := []struct {
		name    string
		remote  string
		headers map[string]string
		trusted []netip.Prefix
		want    string
	}{
		{"remote addr without proxies", "192.168.1.1:5000", nil, nil, "192.168.1.1"},
		{"spoofed header from untrusted peer", "192.168.1.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.1"}, proxies, "192.168.1.1"},
		{"header ignored when no proxies configured", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.1"}, nil, "10.0.0.1"},
		{"first hop from trusted proxy", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.2"}, proxies, "203.0.113.1"},
		{"malformed forwarded address", "10.0.0.1:5000", map[string]string{"X-Forwarded-For": "not-an-ip"}, proxies, "10.0.0.1"},
		{"real ip from trusted proxy", "10.0.0.1:5000", map[string]string{"X-Real-IP": "198.51.100.7"}, proxies, "198.51.100.7"},
		{"ipv6 remote", "[2001:db8::1]:443", nil, nil, "2001:db8::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/session", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			ctx := capture(New(WithTrustedProxies(tt.trusted)), req)

			assert.Equal(t, tt.want, requestcontext.ClientIP(ctx))
		})
	}
}

func TestRecordsUserAgentAndTime(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("User-Agent", "dispatchctl/1.0")

	ctx := capture(New(WithClock(clock)), req)

	assert.Equal(t, "dispatchctl/1.0", requestcontext.UserAgent(ctx))
	assert.Equal(t, clock.Now(), requestcontext.Now(ctx))
}
