package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	fleetmetrics "coldchain/internal/fleet/metrics"
	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/platform/sentinel"
	"coldchain/pkg/platform/tx"
)

// FleetSetStore persists fleet sets. Release and end operations skip the set
// named by except and return the number of sets they changed.
type FleetSetStore interface {
	ActiveSetFinder
	Create(ctx context.Context, set *models.FleetSet) error
	Update(ctx context.Context, set *models.FleetSet) error
	FindByID(ctx context.Context, orgID id.OrganizationID, setID id.FleetSetID) (*models.FleetSet, error)
	List(ctx context.Context, orgID id.OrganizationID, activeOnly bool) ([]*models.FleetSet, error)
	ReleaseDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID, except id.FleetSetID, now time.Time) (int, error)
	ReleaseTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID, except id.FleetSetID, now time.Time) (int, error)
	EndActiveForVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID, except id.FleetSetID, now time.Time) (int, error)
}

// ResourceStore persists carriers, drivers, vehicles, trailers and reefer units.
// Plate and serial uniqueness violations surface as sentinel.ErrAlreadyUsed.
type ResourceStore interface {
	VehicleFinder
	CreateCarrier(ctx context.Context, c *models.Carrier) error
	FindCarrier(ctx context.Context, orgID id.OrganizationID, carrierID id.CarrierID) (*models.Carrier, error)
	ListCarriers(ctx context.Context, orgID id.OrganizationID) ([]*models.Carrier, error)
	CreateDriver(ctx context.Context, d *models.Driver) error
	FindDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.Driver, error)
	ListDrivers(ctx context.Context, orgID id.OrganizationID) ([]*models.Driver, error)
	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	ListVehicles(ctx context.Context, orgID id.OrganizationID) ([]*models.Vehicle, error)
	CreateTrailer(ctx context.Context, t *models.Trailer) error
	FindTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.Trailer, error)
	ListTrailers(ctx context.Context, orgID id.OrganizationID) ([]*models.Trailer, error)
	CreateReefer(ctx context.Context, r *models.ReeferUnit) error
	UpdateReefer(ctx context.Context, r *models.ReeferUnit) error
	FindReefer(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID) (*models.ReeferUnit, error)
	ListReefers(ctx context.Context, orgID id.OrganizationID) ([]*models.ReeferUnit, error)
}

// Service manages fleet resources and executes fleet set reassignments.
type Service struct {
	sets      FleetSetStore
	resources ResourceStore
	tx        tx.Runner
	logger    *slog.Logger
	audit     *audit.Logger
	metrics   *fleetmetrics.Metrics
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

func WithMetrics(m *fleetmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTx sets the unit-of-work runner. Defaults to an in-memory mutex.
func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(sets FleetSetStore, resources ResourceStore, opts ...Option) *Service {
	s := &Service{sets: sets, resources: resources}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewMemoryRunner()
	}
	return s
}

func requireOrg(orgID id.OrganizationID) error {
	if orgID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "organization ID required")
	}
	return nil
}

// wrapResourceErr translates store sentinels for the named resource.
func wrapResourceErr(err error, resource, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, resource+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, resource+" already exists")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "a resource was assigned concurrently; validate again")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}
