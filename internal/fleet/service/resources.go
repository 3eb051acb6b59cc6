package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/requestcontext"
	strutil "coldchain/pkg/string"
)

type CreateCarrierCommand struct {
	OrganizationID id.OrganizationID
	Name           string
}

type CreateDriverCommand struct {
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	FirstName      string
	LastName       string
	Phone          string
}

type CreateVehicleCommand struct {
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	Plate          string
	Type           models.VehicleType
}

type CreateTrailerCommand struct {
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	Plate          string
}

type CreateReeferCommand struct {
	OrganizationID id.OrganizationID
	SerialNumber   string
	Model          string
	Owner          models.ReeferOwner
}

func (s *Service) CreateCarrier(ctx context.Context, cmd CreateCarrierCommand) (*models.Carrier, error) {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "carrier name is required")
	}
	c := &models.Carrier{
		ID:             id.CarrierID(uuid.New()),
		OrganizationID: cmd.OrganizationID,
		Name:           name,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.resources.CreateCarrier(ctx, c); err != nil {
		return nil, wrapResourceErr(err, "carrier", "failed to create carrier")
	}
	return c, nil
}

func (s *Service) ListCarriers(ctx context.Context, orgID id.OrganizationID) ([]*models.Carrier, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.resources.ListCarriers(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list carriers")
	}
	return out, nil
}

func (s *Service) CreateDriver(ctx context.Context, cmd CreateDriverCommand) (*models.Driver, error) {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return nil, err
	}
	if err := s.requireCarrier(ctx, cmd.OrganizationID, cmd.CarrierID); err != nil {
		return nil, err
	}
	d := &models.Driver{
		ID:             id.DriverID(uuid.New()),
		OrganizationID: cmd.OrganizationID,
		CarrierID:      cmd.CarrierID,
		FirstName:      strings.TrimSpace(cmd.FirstName),
		LastName:       strings.TrimSpace(cmd.LastName),
		Phone:          strings.TrimSpace(cmd.Phone),
		CreatedAt:      requestcontext.Now(ctx),
	}
	if d.FirstName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "driver first name is required")
	}
	if err := s.resources.CreateDriver(ctx, d); err != nil {
		return nil, wrapResourceErr(err, "driver", "failed to create driver")
	}
	return d, nil
}

func (s *Service) ListDrivers(ctx context.Context, orgID id.OrganizationID) ([]*models.Driver, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.resources.ListDrivers(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drivers")
	}
	return out, nil
}

func (s *Service) CreateVehicle(ctx context.Context, cmd CreateVehicleCommand) (*models.Vehicle, error) {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return nil, err
	}
	if !cmd.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "vehicle type must be one of tractor, straight_truck, van, reefer_van")
	}
	plate := strutil.NormalizePlate(cmd.Plate)
	if plate == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "vehicle plate is required")
	}
	if err := s.requireCarrier(ctx, cmd.OrganizationID, cmd.CarrierID); err != nil {
		return nil, err
	}
	v := &models.Vehicle{
		ID:             id.VehicleID(uuid.New()),
		OrganizationID: cmd.OrganizationID,
		CarrierID:      cmd.CarrierID,
		Plate:          plate,
		Type:           cmd.Type,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.resources.CreateVehicle(ctx, v); err != nil {
		return nil, wrapResourceErr(err, "vehicle", "failed to create vehicle")
	}
	return v, nil
}

func (s *Service) GetVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.Vehicle, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	v, err := s.resources.FindVehicle(ctx, orgID, vehicleID)
	if err != nil {
		return nil, wrapResourceErr(err, "vehicle", "failed to load vehicle")
	}
	return v, nil
}

func (s *Service) ListVehicles(ctx context.Context, orgID id.OrganizationID) ([]*models.Vehicle, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.resources.ListVehicles(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vehicles")
	}
	return out, nil
}

func (s *Service) CreateTrailer(ctx context.Context, cmd CreateTrailerCommand) (*models.Trailer, error) {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return nil, err
	}
	plate := strutil.NormalizePlate(cmd.Plate)
	if plate == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "trailer plate is required")
	}
	if err := s.requireCarrier(ctx, cmd.OrganizationID, cmd.CarrierID); err != nil {
		return nil, err
	}
	t := &models.Trailer{
		ID:             id.TrailerID(uuid.New()),
		OrganizationID: cmd.OrganizationID,
		CarrierID:      cmd.CarrierID,
		Plate:          plate,
		CreatedAt:      requestcontext.Now(ctx),
	}
	if err := s.resources.CreateTrailer(ctx, t); err != nil {
		return nil, wrapResourceErr(err, "trailer", "failed to create trailer")
	}
	return t, nil
}

func (s *Service) ListTrailers(ctx context.Context, orgID id.OrganizationID) ([]*models.Trailer, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.resources.ListTrailers(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list trailers")
	}
	return out, nil
}

// CreateReefer registers a refrigeration unit on a trailer or vehicle of the organization.
func (s *Service) CreateReefer(ctx context.Context, cmd CreateReeferCommand) (*models.ReeferUnit, error) {
	if err := requireOrg(cmd.OrganizationID); err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, cmd.OrganizationID, cmd.Owner); err != nil {
		return nil, err
	}
	r, err := models.NewReeferUnit(id.ReeferID(uuid.New()), cmd.OrganizationID,
		strings.TrimSpace(cmd.SerialNumber), strings.TrimSpace(cmd.Model), cmd.Owner, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.resources.CreateReefer(ctx, r); err != nil {
		return nil, wrapResourceErr(err, "reefer unit", "failed to create reefer unit")
	}
	return r, nil
}

func (s *Service) ListReefers(ctx context.Context, orgID id.OrganizationID) ([]*models.ReeferUnit, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	out, err := s.resources.ListReefers(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reefer units")
	}
	return out, nil
}

func (s *Service) GetReefer(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID) (*models.ReeferUnit, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	r, err := s.resources.FindReefer(ctx, orgID, reeferID)
	if err != nil {
		return nil, wrapResourceErr(err, "reefer unit", "failed to load reefer unit")
	}
	return r, nil
}

// BindReeferDevice records the telematics device provisioned for a reefer unit.
func (s *Service) BindReeferDevice(ctx context.Context, orgID id.OrganizationID, reeferID id.ReeferID, ident string, vendorID int64) (*models.ReeferUnit, error) {
	if err := requireOrg(orgID); err != nil {
		return nil, err
	}
	var out *models.ReeferUnit
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		r, err := s.resources.FindReefer(ctx, orgID, reeferID)
		if err != nil {
			return wrapResourceErr(err, "reefer unit", "failed to load reefer unit")
		}
		if err := r.BindDevice(ident, vendorID, requestcontext.Now(ctx)); err != nil {
			return err
		}
		if err := s.resources.UpdateReefer(ctx, r); err != nil {
			return wrapResourceErr(err, "reefer unit", "failed to bind device")
		}
		out = r
		return nil
	})
	return out, err
}

func (s *Service) requireCarrier(ctx context.Context, orgID id.OrganizationID, carrierID id.CarrierID) error {
	if carrierID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "carrier_id is required")
	}
	if _, err := s.resources.FindCarrier(ctx, orgID, carrierID); err != nil {
		return wrapResourceErr(err, "carrier", "failed to load carrier")
	}
	return nil
}

func (s *Service) requireOwner(ctx context.Context, orgID id.OrganizationID, owner models.ReeferOwner) error {
	switch o := owner.(type) {
	case models.TrailerOwner:
		if _, err := s.resources.FindTrailer(ctx, orgID, o.TrailerID); err != nil {
			return wrapResourceErr(err, "trailer", "failed to load trailer")
		}
	case models.VehicleOwner:
		if _, err := s.resources.FindVehicle(ctx, orgID, o.VehicleID); err != nil {
			return wrapResourceErr(err, "vehicle", "failed to load vehicle")
		}
	default:
		return dErrors.New(dErrors.CodeValidation, "reefer unit must be owned by a trailer or a vehicle")
	}
	return nil
}
