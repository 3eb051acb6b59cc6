// Package requestlimit enforces per-IP and per-user sliding window limits.
package requestlimit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coldchain/internal/ratelimit/config"
	"coldchain/internal/ratelimit/metrics"
	"coldchain/internal/ratelimit/models"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/privacy"
	"coldchain/pkg/requestcontext"
)

// deniedRetryAfter is returned when a class has no configured limit.
const deniedRetryAfter = 60

// BucketStore counts hits in sliding windows.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Service is safe for concurrent use by HTTP middleware.
type Service struct {
	buckets BucketStore
	config  *config.Config
	metrics *metrics.Metrics
	audit   *audit.Logger
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("bucket store is required")
	}
	s := &Service{
		buckets: buckets,
		config:  config.DefaultConfig(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckIP limits unauthenticated callers by address. A class without a
// configured limit is denied.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.Result, error) {
	limit, ok := s.config.IPLimit(class)
	if !ok {
		return s.deny(ctx, models.KeyPrefixIP, class), nil
	}
	return s.check(ctx, models.KeyPrefixIP, ip, privacy.AnonymizeIP(ip), class, limit)
}

// CheckUser limits authenticated callers by user ID.
func (s *Service) CheckUser(ctx context.Context, userID string, class models.EndpointClass) (*models.Result, error) {
	limit, ok := s.config.UserLimit(class)
	if !ok {
		return s.deny(ctx, models.KeyPrefixUser, class), nil
	}
	return s.check(ctx, models.KeyPrefixUser, userID, userID, class, limit)
}

func (s *Service) check(ctx context.Context, prefix models.KeyPrefix, identifier, logIdentifier string, class models.EndpointClass, limit config.Limit) (*models.Result, error) {
	res, err := s.buckets.Allow(ctx, models.Key(prefix, identifier, class), limit.Requests, limit.Window)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate limit")
	}
	s.metrics.RecordDecision(string(prefix), string(class), res.Allowed)
	if !res.Allowed {
		s.audit.Log(ctx, audit.EventRateLimitExceeded,
			"subject", logIdentifier,
			"reason", string(prefix)+"_"+string(class),
			"limit", limit.Requests,
			"window_seconds", int(limit.Window.Seconds()),
		)
	}
	return res, nil
}

func (s *Service) deny(ctx context.Context, prefix models.KeyPrefix, class models.EndpointClass) *models.Result {
	s.logger.ErrorContext(ctx, "no rate limit configured, denying",
		"limit_type", string(prefix),
		"endpoint_class", string(class),
	)
	s.metrics.RecordDecision(string(prefix), string(class), false)
	return &models.Result{
		ResetAt:    requestcontext.Now(ctx).Add(deniedRetryAfter * time.Second),
		RetryAfter: deniedRetryAfter,
	}
}
