package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"

	fleetmodels "coldchain/internal/fleet/models"
	"coldchain/internal/platform/tracer"
	"coldchain/internal/telematics/flespi"
	telematicsmetrics "coldchain/internal/telematics/metrics"
	"coldchain/internal/telematics/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
)

// Vendor is the telematics vendor API.
type Vendor interface {
	ListProtocols(ctx context.Context) ([]models.Protocol, error)
	ListDeviceTypes(ctx context.Context, protocolID int64) ([]models.DeviceType, error)
	CreateDevice(ctx context.Context, spec models.DeviceSpec) (*models.Device, error)
}

// ProtocolCache caches the protocol catalog. A miss is sentinel.ErrNotFound.
type ProtocolCache interface {
	Get(ctx context.Context) ([]models.Protocol, error)
	Set(ctx context.Context, protocols []models.Protocol, ttl time.Duration) error
}

// CatalogStore keeps the last synced hardware catalog.
type CatalogStore interface {
	Replace(ctx context.Context, c *models.Catalog) error
	DeviceTypes(ctx context.Context, protocolID int64) ([]models.DeviceType, error)
}

// ReeferBinder is the fleet surface provisioning needs.
type ReeferBinder interface {
	GetReefer(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID) (*fleetmodels.ReeferUnit, error)
	BindReeferDevice(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID, ident string, vendorID int64) (*fleetmodels.ReeferUnit, error)
}

// Service proxies the Flespi catalog and device API for the dashboard.
type Service struct {
	vendor      Vendor
	cache       ProtocolCache
	catalog     CatalogStore
	reefers     ReeferBinder
	protocolTTL time.Duration
	syncWorkers int
	clock       clockwork.Clock
	logger      *slog.Logger
	audit       *audit.Logger
	metrics     *telematicsmetrics.Metrics
	tracer      tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Service) {
		s.audit = l
	}
}

func WithMetrics(m *telematicsmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

// WithProtocolTTL sets how long the protocol catalog is cached.
func WithProtocolTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.protocolTTL = ttl
		}
	}
}

// WithSyncWorkers bounds concurrent vendor calls during a catalog sync.
func WithSyncWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.syncWorkers = n
		}
	}
}

func New(vendor Vendor, cache ProtocolCache, catalog CatalogStore, reefers ReeferBinder, opts ...Option) *Service {
	s := &Service{
		vendor:      vendor,
		cache:       cache,
		catalog:     catalog,
		reefers:     reefers,
		protocolTTL: time.Hour,
		syncWorkers: 4,
		clock:       clockwork.NewRealClock(),
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// wrapVendorErr translates vendor failures into domain errors.
func wrapVendorErr(err error, action string) error {
	var apiErr *flespi.APIError
	switch {
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.WrapAs(err, dErrors.CodeUnavailable, "telematics vendor unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.WrapAs(err, dErrors.CodeTimeout, "telematics vendor timed out")
	case errors.As(err, &apiErr):
		switch apiErr.Status {
		case http.StatusBadRequest:
			return dErrors.New(dErrors.CodeValidation, apiErr.Reason)
		case http.StatusNotFound:
			return dErrors.New(dErrors.CodeNotFound, "not found at telematics vendor")
		case http.StatusConflict:
			return dErrors.New(dErrors.CodeConflict, apiErr.Reason)
		}
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
