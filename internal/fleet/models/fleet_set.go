package models

import (
	"time"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

// FleetSet binds a driver and/or trailer to a vehicle for a validity window.
type FleetSet struct {
	ID             id.FleetSetID
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	DriverID       *id.DriverID
	VehicleID      id.VehicleID
	TrailerID      *id.TrailerID
	ValidFrom      time.Time
	ValidTo        *time.Time
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewFleetSet(setID id.FleetSetID, orgID id.OrganizationID, carrierID id.CarrierID, driverID *id.DriverID, vehicleID id.VehicleID, trailerID *id.TrailerID, validFrom, now time.Time) (*FleetSet, error) {
	if orgID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization is required")
	}
	if vehicleID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vehicle is required")
	}
	if validFrom.IsZero() {
		validFrom = now
	}
	return &FleetSet{
		ID:             setID,
		OrganizationID: orgID,
		CarrierID:      carrierID,
		DriverID:       driverID,
		VehicleID:      vehicleID,
		TrailerID:      trailerID,
		ValidFrom:      validFrom,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// End closes the validity window.
func (f *FleetSet) End(now time.Time) error {
	if !f.Active {
		return dErrors.New(dErrors.CodeInvariantViolation, "fleet set has already ended")
	}
	f.Active = false
	f.ValidTo = &now
	f.UpdatedAt = now
	return nil
}

// SamePair reports whether the set already binds exactly this driver and trailer.
func (f *FleetSet) SamePair(driverID *id.DriverID, trailerID *id.TrailerID) bool {
	return sameDriver(f.DriverID, driverID) && sameTrailer(f.TrailerID, trailerID)
}

func (f *FleetSet) HasDriver(driverID id.DriverID) bool {
	return f.DriverID != nil && *f.DriverID == driverID
}

func (f *FleetSet) HasTrailer(trailerID id.TrailerID) bool {
	return f.TrailerID != nil && *f.TrailerID == trailerID
}

func sameDriver(a, b *id.DriverID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTrailer(a, b *id.TrailerID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
