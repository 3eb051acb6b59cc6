package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	"coldchain/pkg/requestcontext"
)

// FleetSetCommand is the finalized assignment tuple for create and update.
type FleetSetCommand struct {
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	DriverID       *id.DriverID
	VehicleID      id.VehicleID
	TrailerID      *id.TrailerID
	ValidFrom      time.Time
}

// CreateFleetSet persists a new assignment and executes the reassignment plan
// in the same unit of work: the driver and trailer are released from their
// previous sets and the vehicle's previous set is ended.
func (s *Service) CreateFleetSet(ctx context.Context, cmd FleetSetCommand) (*models.FleetSet, error) {
	if err := s.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	set, err := models.NewFleetSet(id.FleetSetID(uuid.New()), cmd.OrganizationID, cmd.CarrierID,
		cmd.DriverID, cmd.VehicleID, cmd.TrailerID, cmd.ValidFrom, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.reassign(ctx, cmd, set.ID, now); err != nil {
			return err
		}
		if err := s.sets.Create(ctx, set); err != nil {
			return wrapResourceErr(err, "fleet set", "failed to create fleet set")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated()
	s.audit.Log(ctx, audit.EventFleetSetCreated,
		"user_id", requestcontext.UserID(ctx).String(),
		"organization_id", cmd.OrganizationID.String(),
		"subject", set.ID.String(),
	)
	return set, nil
}

// UpdateFleetSet rebinds an active set, applying the same reassignment plan
// while excluding the set itself.
func (s *Service) UpdateFleetSet(ctx context.Context, setID id.FleetSetID, cmd FleetSetCommand) (*models.FleetSet, error) {
	if err := s.checkReferences(ctx, cmd); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var out *models.FleetSet
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		set, err := s.sets.FindByID(ctx, cmd.OrganizationID, setID)
		if err != nil {
			return wrapResourceErr(err, "fleet set", "failed to load fleet set")
		}
		if !set.Active {
			return dErrors.New(dErrors.CodeConflict, "fleet set has already ended")
		}
		if err := s.reassign(ctx, cmd, set.ID, now); err != nil {
			return err
		}
		set.CarrierID = cmd.CarrierID
		set.DriverID = cmd.DriverID
		set.VehicleID = cmd.VehicleID
		set.TrailerID = cmd.TrailerID
		set.UpdatedAt = now
		if err := s.sets.Update(ctx, set); err != nil {
			return wrapResourceErr(err, "fleet set", "failed to update fleet set")
		}
		out = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.Log(ctx, audit.EventFleetSetUpdated,
		"user_id", requestcontext.UserID(ctx).String(),
		"organization_id", cmd.OrganizationID.String(),
		"subject", setID.String(),
	)
	return out, nil
}

// EndFleetSet closes an active set's validity window.
func (s *Service) EndFleetSet(ctx context.Context, orgID id.OrganizationID, setID id.FleetSetID) (*models.FleetSet, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	var out *models.FleetSet
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		set, err := s.sets.FindByID(ctx, orgID, setID)
		if err != nil {
			return wrapResourceErr(err, "fleet set", "failed to load fleet set")
		}
		if !set.Active {
			return dErrors.New(dErrors.CodeConflict, "fleet set has already ended")
		}
		if err := set.End(requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.sets.Update(ctx, set); err != nil {
			return wrapResourceErr(err, "fleet set", "failed to end fleet set")
		}
		out = set
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddEnded(1)
	s.audit.Log(ctx, audit.EventFleetSetEnded,
		"user_id", requestcontext.UserID(ctx).String(),
		"organization_id", orgID.String(),
		"subject", setID.String(),
	)
	return out, nil
}

func (s *Service) ListFleetSets(ctx context.Context, orgID id.OrganizationID, activeOnly bool) ([]*models.FleetSet, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.sets.List(ctx, orgID, activeOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list fleet sets")
	}
	return out, nil
}

// checkReferences verifies every referenced resource belongs to the
// organization and the trailer rule holds.
func (s *Service) checkReferences(ctx context.Context, cmd FleetSetCommand) error {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return err
	}
	if cmd.VehicleID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "vehicle_id is required")
	}
	vehicle, err := s.resources.FindVehicle(ctx, cmd.OrganizationID, cmd.VehicleID)
	if err != nil {
		return wrapResourceErr(err, "vehicle", "failed to load vehicle")
	}
	if err := models.CheckTrailerRule(vehicle.Type, cmd.TrailerID); err != nil {
		return err
	}
	if err := s.requireCarrier(ctx, cmd.OrganizationID, cmd.CarrierID); err != nil {
		return err
	}
	if cmd.DriverID != nil {
		if _, err := s.resources.FindDriver(ctx, cmd.OrganizationID, *cmd.DriverID); err != nil {
			return wrapResourceErr(err, "driver", "failed to load driver")
		}
	}
	if cmd.TrailerID != nil {
		if _, err := s.resources.FindTrailer(ctx, cmd.OrganizationID, *cmd.TrailerID); err != nil {
			return wrapResourceErr(err, "trailer", "failed to load trailer")
		}
	}
	return nil
}

func (s *Service) reassign(ctx context.Context, cmd FleetSetCommand, except id.FleetSetID, now time.Time) error {
	if cmd.DriverID != nil {
		n, err := s.sets.ReleaseDriver(ctx, cmd.OrganizationID, *cmd.DriverID, except, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release driver")
		}
		s.metrics.AddReleased("driver", n)
	}
	if cmd.TrailerID != nil {
		n, err := s.sets.ReleaseTrailer(ctx, cmd.OrganizationID, *cmd.TrailerID, except, now)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release trailer")
		}
		s.metrics.AddReleased("trailer", n)
	}
	n, err := s.sets.EndActiveForVehicle(ctx, cmd.OrganizationID, cmd.VehicleID, except, now)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end previous vehicle assignment")
	}
	s.metrics.AddEnded(n)
	if s.logger != nil && n > 0 {
		s.logger.InfoContext(ctx, "ended previous vehicle assignment",
			"organization_id", cmd.OrganizationID.String(),
			"vehicle_id", cmd.VehicleID.String(),
		)
	}
	return nil
}
