// Package middleware applies request limits to HTTP routes.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"coldchain/internal/ratelimit/models"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

// Limiter is satisfied by requestlimit.Service.
type Limiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error)
	CheckUser(ctx context.Context, userID string, class models.EndpointClass) (*models.Result, error)
}

type Middleware struct {
	limiter Limiter
	logger  *slog.Logger
}

func New(limiter Limiter, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{limiter: limiter, logger: logger}
}

// RateLimitIP limits by the client IP put in the context by the request
// metadata middleware.
func (m *Middleware) RateLimitIP(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			res, err := m.limiter.CheckIP(ctx, requestcontext.ClientIP(ctx), class)
			m.apply(w, r, next, res, err)
		})
	}
}

// RateLimitUser limits by the authenticated user. Requests without a user
// pass through; the auth middleware rejects them.
func (m *Middleware) RateLimitUser(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			userID := requestcontext.UserID(ctx)
			if userID.IsNil() {
				next.ServeHTTP(w, r)
				return
			}
			res, err := m.limiter.CheckUser(ctx, userID.String(), class)
			m.apply(w, r, next, res, err)
		})
	}
}

// RateLimitUserByMethod uses ClassRead for safe methods and ClassWrite for
// everything else.
func (m *Middleware) RateLimitUserByMethod() func(http.Handler) http.Handler {
	read := m.RateLimitUser(models.ClassRead)
	write := m.RateLimitUser(models.ClassWrite)
	return func(next http.Handler) http.Handler {
		readNext, writeNext := read(next), write(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				readNext.ServeHTTP(w, r)
			default:
				writeNext.ServeHTTP(w, r)
			}
		})
	}
}

func (m *Middleware) apply(w http.ResponseWriter, r *http.Request, next http.Handler, res *models.Result, err error) {
	if err != nil {
		// Fail open when the store is unavailable.
		m.logger.ErrorContext(r.Context(), "rate limit check failed", "error", err, "path", r.URL.Path)
		next.ServeHTTP(w, r)
		return
	}
	if res.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
	}
	if !res.Allowed {
		w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
		httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "rate limit exceeded; retry after "+strconv.Itoa(res.RetryAfter)+"s"))
		return
	}
	next.ServeHTTP(w, r)
}
