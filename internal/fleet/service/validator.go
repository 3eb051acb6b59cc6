package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	fleetcontract "coldchain/contracts/fleet"
	fleetmetrics "coldchain/internal/fleet/metrics"
	"coldchain/internal/fleet/models"
	"coldchain/internal/platform/tracer"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/sentinel"
)

// ActiveSetFinder looks up the active fleet set holding a resource.
// Implementations return sentinel.ErrNotFound when none is active.
type ActiveSetFinder interface {
	FindActiveByDriver(ctx context.Context, orgID id.OrganizationID, driverID id.DriverID) (*models.FleetSet, error)
	FindActiveByTrailer(ctx context.Context, orgID id.OrganizationID, trailerID id.TrailerID) (*models.FleetSet, error)
	FindActiveByVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.FleetSet, error)
}

type VehicleFinder interface {
	FindVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.Vehicle, error)
}

// ValidateQuery is a proposed driver/vehicle/trailer triple. ExcludeFleetSetID
// names the set being edited so it never conflicts with itself.
type ValidateQuery struct {
	OrganizationID    id.OrganizationID
	DriverID          *id.DriverID
	VehicleID         id.VehicleID
	TrailerID         *id.TrailerID
	ExcludeFleetSetID *id.FleetSetID
}

// Validator reports which resources of a proposed fleet set are already bound
// elsewhere. It never mutates state.
type Validator struct {
	sets     ActiveSetFinder
	vehicles VehicleFinder
	logger   *slog.Logger
	metrics  *fleetmetrics.Metrics
	tracer   tracer.Tracer
}

type ValidatorOption func(*Validator)

func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) { v.logger = logger }
}

func WithValidatorMetrics(m *fleetmetrics.Metrics) ValidatorOption {
	return func(v *Validator) { v.metrics = m }
}

func WithValidatorTracer(t tracer.Tracer) ValidatorOption {
	return func(v *Validator) { v.tracer = t }
}

func NewValidator(sets ActiveSetFinder, vehicles VehicleFinder, opts ...ValidatorOption) *Validator {
	v := &Validator{sets: sets, vehicles: vehicles, tracer: tracer.NewNoop()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *Validator) Validate(ctx context.Context, q ValidateQuery) (result *fleetcontract.ValidationResult, err error) {
	start := time.Now()
	ctx, span := v.tracer.Start(ctx, tracer.SpanFleetValidate,
		tracer.String(tracer.AttrOrganizationID, q.OrganizationID.String()))
	defer func() { span.End(err) }()

	if q.OrganizationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organization ID required")
	}
	if q.VehicleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "vehicle_id is required")
	}

	vehicle, err := v.vehicles.FindVehicle(ctx, q.OrganizationID, q.VehicleID)
	if err != nil {
		return nil, wrapResourceErr(err, "vehicle", "failed to load vehicle")
	}
	if err := models.CheckTrailerRule(vehicle.Type, q.TrailerID); err != nil {
		return nil, err
	}

	plates := plateCache{finder: v.vehicles, orgID: q.OrganizationID, known: map[id.VehicleID]*models.Vehicle{vehicle.ID: vehicle}}
	result = &fleetcontract.ValidationResult{}

	if q.DriverID != nil {
		holder, err := v.activeHolder(ctx, q, func(ctx context.Context) (*models.FleetSet, error) {
			return v.sets.FindActiveByDriver(ctx, q.OrganizationID, *q.DriverID)
		})
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.VehicleID != q.VehicleID {
			other, err := plates.get(ctx, holder.VehicleID)
			if err != nil {
				return nil, err
			}
			result.Driver = conflictOn(other, fmt.Sprintf("Driver is currently assigned to vehicle %s.", other.Plate))
		}
	}

	if q.TrailerID != nil {
		holder, err := v.activeHolder(ctx, q, func(ctx context.Context) (*models.FleetSet, error) {
			return v.sets.FindActiveByTrailer(ctx, q.OrganizationID, *q.TrailerID)
		})
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.VehicleID != q.VehicleID {
			other, err := plates.get(ctx, holder.VehicleID)
			if err != nil {
				return nil, err
			}
			if other.Type.IsTractorClass() {
				result.Trailer = conflictOn(other, fmt.Sprintf("Trailer is currently hooked to tractor %s and will be dropped and re-hooked.", other.Plate))
				result.Trailer.IsDropAndHook = true
			} else {
				result.Trailer = conflictOn(other, fmt.Sprintf("Trailer is currently assigned to vehicle %s.", other.Plate))
			}
		}
	}

	holder, err := v.activeHolder(ctx, q, func(ctx context.Context) (*models.FleetSet, error) {
		return v.sets.FindActiveByVehicle(ctx, q.OrganizationID, q.VehicleID)
	})
	if err != nil {
		return nil, err
	}
	if holder != nil && !holder.SamePair(q.DriverID, q.TrailerID) {
		result.Vehicle = conflictOn(vehicle, fmt.Sprintf("Vehicle %s already has an active assignment, which will be ended.", vehicle.Plate))
	}

	conflicts := countConflicts(result)
	span.SetAttributes(
		tracer.Int64(tracer.AttrConflicts, int64(conflicts)),
		tracer.Bool(tracer.AttrDropAndHook, result.Trailer.IsDropAndHook),
	)
	v.metrics.ObserveValidation(start, conflicts > 0, result.Trailer.IsDropAndHook)
	if v.logger != nil && conflicts > 0 {
		v.logger.DebugContext(ctx, "fleet set validation found conflicts",
			"organization_id", q.OrganizationID.String(),
			"vehicle_id", q.VehicleID.String(),
			"conflicts", conflicts,
		)
	}
	return result, nil
}

// activeHolder returns the active set found by lookup, or nil when there is
// none or it is the set being edited.
func (v *Validator) activeHolder(ctx context.Context, q ValidateQuery, lookup func(context.Context) (*models.FleetSet, error)) (*models.FleetSet, error) {
	set, err := lookup(ctx)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up active fleet sets")
	}
	if q.ExcludeFleetSetID != nil && set.ID == *q.ExcludeFleetSetID {
		return nil, nil
	}
	return set, nil
}

func conflictOn(vehicle *models.Vehicle, message string) fleetcontract.ReassignmentInfo {
	vehicleID := vehicle.ID
	return fleetcontract.ReassignmentInfo{
		HasConflict:         true,
		CurrentVehicleID:    &vehicleID,
		CurrentVehiclePlate: vehicle.Plate,
		Message:             message,
	}
}

func countConflicts(r *fleetcontract.ValidationResult) int {
	n := 0
	for _, info := range []fleetcontract.ReassignmentInfo{r.Driver, r.Vehicle, r.Trailer} {
		if info.HasConflict {
			n++
		}
	}
	return n
}

// plateCache avoids loading the same holder vehicle twice when the driver and
// trailer conflict against one origin.
type plateCache struct {
	finder VehicleFinder
	orgID  id.OrganizationID
	known  map[id.VehicleID]*models.Vehicle
}

func (c *plateCache) get(ctx context.Context, vehicleID id.VehicleID) (*models.Vehicle, error) {
	if v, ok := c.known[vehicleID]; ok {
		return v, nil
	}
	v, err := c.finder.FindVehicle(ctx, c.orgID, vehicleID)
	if err != nil {
		return nil, wrapResourceErr(err, "vehicle", "failed to load conflicting vehicle")
	}
	c.known[vehicleID] = v
	return v, nil
}
