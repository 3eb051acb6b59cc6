// Package fleet holds the fleet-set shapes shared by the backend API and
// dispatcher clients.
package fleet

import (
	"time"

	id "coldchain/pkg/domain"
)

// ReassignmentInfo describes whether one resource is already bound elsewhere.
type ReassignmentInfo struct {
	HasConflict         bool          `json:"has_conflict"`
	CurrentVehicleID    *id.VehicleID `json:"current_vehicle_id,omitempty"`
	CurrentVehiclePlate string        `json:"current_vehicle_plate,omitempty"`
	Message             string        `json:"message,omitempty"`
	IsDropAndHook       bool          `json:"is_drop_and_hook"`
}

// ValidationResult reports conflicts for the driver, vehicle and trailer of a
// proposed fleet set.
type ValidationResult struct {
	Driver  ReassignmentInfo `json:"driver"`
	Vehicle ReassignmentInfo `json:"vehicle"`
	Trailer ReassignmentInfo `json:"trailer"`
}

// HasConflicts reports whether any resource is bound elsewhere.
func (r *ValidationResult) HasConflicts() bool {
	return r != nil && (r.Driver.HasConflict || r.Vehicle.HasConflict || r.Trailer.HasConflict)
}

// ValidateRequest is the body of POST /fleet-sets/validate.
type ValidateRequest struct {
	DriverID          *id.DriverID   `json:"driver_id,omitempty"`
	VehicleID         id.VehicleID   `json:"vehicle_id"`
	TrailerID         *id.TrailerID  `json:"trailer_id,omitempty"`
	ExcludeFleetSetID *id.FleetSetID `json:"exclude_fleet_set_id,omitempty"`
}

// FleetSetRequest is the body of POST /fleet-sets and PUT /fleet-sets/{id}.
// A nil ValidFrom starts the set at the server's current time.
type FleetSetRequest struct {
	CarrierID id.CarrierID  `json:"carrier_id"`
	DriverID  *id.DriverID  `json:"driver_id,omitempty"`
	VehicleID id.VehicleID  `json:"vehicle_id"`
	TrailerID *id.TrailerID `json:"trailer_id,omitempty"`
	ValidFrom *time.Time    `json:"valid_from,omitempty"`
}

// FleetSet is the API view of a driver/vehicle/trailer binding.
type FleetSet struct {
	ID             id.FleetSetID     `json:"id"`
	OrganizationID id.OrganizationID `json:"organization_id"`
	CarrierID      id.CarrierID      `json:"carrier_id"`
	DriverID       *id.DriverID      `json:"driver_id,omitempty"`
	VehicleID      id.VehicleID      `json:"vehicle_id"`
	TrailerID      *id.TrailerID     `json:"trailer_id,omitempty"`
	ValidFrom      time.Time         `json:"valid_from"`
	ValidTo        *time.Time        `json:"valid_to,omitempty"`
	Active         bool              `json:"active"`
}

// Vehicle is the API view of a vehicle, used by clients to check the trailer
// rule before calling the validator.
type Vehicle struct {
	ID             id.VehicleID      `json:"id"`
	OrganizationID id.OrganizationID `json:"organization_id"`
	CarrierID      id.CarrierID      `json:"carrier_id"`
	Plate          string            `json:"plate"`
	Type           string            `json:"type"`
}

// VehicleTypeTractor is the only vehicle type a trailer may be hooked to.
const VehicleTypeTractor = "tractor"

// CanTowTrailer reports whether a trailer may be bound to this vehicle.
func (v Vehicle) CanTowTrailer() bool {
	return v.Type == VehicleTypeTractor
}
