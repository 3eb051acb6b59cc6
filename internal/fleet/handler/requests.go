package handler

import (
	"strings"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/internal/fleet/models"
	"coldchain/internal/fleet/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	strutil "coldchain/pkg/string"
	"coldchain/pkg/validation"
)

// HTTP request DTOs. Identifiers arrive as strings and are parsed into typed
// IDs when the request is converted into a service command.

type CreateCarrierRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

func (r *CreateCarrierRequest) Normalize() {
	strutil.TrimStrings(&r.Name)
}

func (r *CreateCarrierRequest) Validate() error {
	return validation.Validate(r)
}

type CreateDriverRequest struct {
	CarrierID string `json:"carrier_id" validate:"required,uuid"`
	FirstName string `json:"first_name" validate:"required,notblank,max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=32"`
}

func (r *CreateDriverRequest) Normalize() {
	strutil.TrimStrings(&r.CarrierID, &r.FirstName, &r.LastName, &r.Phone)
}

func (r *CreateDriverRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateDriverRequest) ToCommand(orgID id.OrganizationID) (service.CreateDriverCommand, error) {
	carrierID, err := id.ParseCarrierID(r.CarrierID)
	if err != nil {
		return service.CreateDriverCommand{}, err
	}
	return service.CreateDriverCommand{
		OrganizationID: orgID,
		CarrierID:      carrierID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
	}, nil
}

type CreateVehicleRequest struct {
	CarrierID string `json:"carrier_id" validate:"required,uuid"`
	Plate     string `json:"plate" validate:"required,plate"`
	Type      string `json:"type" validate:"required,oneof=tractor straight_truck van reefer_van"`
}

func (r *CreateVehicleRequest) Normalize() {
	strutil.TrimStrings(&r.CarrierID)
	r.Plate = strutil.NormalizePlate(r.Plate)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
}

func (r *CreateVehicleRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateVehicleRequest) ToCommand(orgID id.OrganizationID) (service.CreateVehicleCommand, error) {
	carrierID, err := id.ParseCarrierID(r.CarrierID)
	if err != nil {
		return service.CreateVehicleCommand{}, err
	}
	return service.CreateVehicleCommand{
		OrganizationID: orgID,
		CarrierID:      carrierID,
		Plate:          r.Plate,
		Type:           models.VehicleType(r.Type),
	}, nil
}

type CreateTrailerRequest struct {
	CarrierID string `json:"carrier_id" validate:"required,uuid"`
	Plate     string `json:"plate" validate:"required,plate"`
}

func (r *CreateTrailerRequest) Normalize() {
	strutil.TrimStrings(&r.CarrierID)
	r.Plate = strutil.NormalizePlate(r.Plate)
}

func (r *CreateTrailerRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateTrailerRequest) ToCommand(orgID id.OrganizationID) (service.CreateTrailerCommand, error) {
	carrierID, err := id.ParseCarrierID(r.CarrierID)
	if err != nil {
		return service.CreateTrailerCommand{}, err
	}
	return service.CreateTrailerCommand{OrganizationID: orgID, CarrierID: carrierID, Plate: r.Plate}, nil
}

type CreateReeferRequest struct {
	SerialNumber string `json:"serial_number" validate:"required,notblank,max=64"`
	Model        string `json:"model" validate:"max=100"`
	OwnerKind    string `json:"owner_kind" validate:"required,oneof=trailer vehicle"`
	OwnerID      string `json:"owner_id" validate:"required,uuid"`
}

func (r *CreateReeferRequest) Normalize() {
	strutil.TrimStrings(&r.SerialNumber, &r.Model, &r.OwnerID)
	r.SerialNumber = strings.ToUpper(r.SerialNumber)
	r.OwnerKind = strings.ToLower(strings.TrimSpace(r.OwnerKind))
}

func (r *CreateReeferRequest) Validate() error {
	return validation.Validate(r)
}

func (r *CreateReeferRequest) ToCommand(orgID id.OrganizationID) (service.CreateReeferCommand, error) {
	owner, err := models.ParseOwner(r.OwnerKind, r.OwnerID)
	if err != nil {
		return service.CreateReeferCommand{}, err
	}
	return service.CreateReeferCommand{
		OrganizationID: orgID,
		SerialNumber:   r.SerialNumber,
		Model:          r.Model,
		Owner:          owner,
	}, nil
}

// ValidateFleetSetRequest wraps the shared contract so it can be prepared.
type ValidateFleetSetRequest struct {
	fleetcontract.ValidateRequest
}

func (r *ValidateFleetSetRequest) Validate() error {
	if r.VehicleID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "vehicle_id is required")
	}
	return nil
}

func (r *ValidateFleetSetRequest) ToQuery(orgID id.OrganizationID) service.ValidateQuery {
	return service.ValidateQuery{
		OrganizationID:    orgID,
		DriverID:          r.DriverID,
		VehicleID:         r.VehicleID,
		TrailerID:         r.TrailerID,
		ExcludeFleetSetID: r.ExcludeFleetSetID,
	}
}

type FleetSetRequest struct {
	fleetcontract.FleetSetRequest
}

func (r *FleetSetRequest) Validate() error {
	switch {
	case r.CarrierID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "carrier_id is required")
	case r.VehicleID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "vehicle_id is required")
	}
	return nil
}

func (r *FleetSetRequest) ToCommand(orgID id.OrganizationID) service.FleetSetCommand {
	cmd := service.FleetSetCommand{
		OrganizationID: orgID,
		CarrierID:      r.CarrierID,
		DriverID:       r.DriverID,
		VehicleID:      r.VehicleID,
		TrailerID:      r.TrailerID,
	}
	if r.ValidFrom != nil {
		cmd.ValidFrom = *r.ValidFrom
	}
	return cmd
}
