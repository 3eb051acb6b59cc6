package models

import (
	"time"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type VehicleType string

const (
	VehicleTractor       VehicleType = "tractor"
	VehicleStraightTruck VehicleType = "straight_truck"
	VehicleVan           VehicleType = "van"
	VehicleReeferVan     VehicleType = "reefer_van"
)

func (t VehicleType) IsValid() bool {
	switch t {
	case VehicleTractor, VehicleStraightTruck, VehicleVan, VehicleReeferVan:
		return true
	}
	return false
}

// IsTractorClass reports whether a trailer can be hooked to this vehicle type.
func (t VehicleType) IsTractorClass() bool {
	return t == VehicleTractor
}

type Carrier struct {
	ID             id.CarrierID
	OrganizationID id.OrganizationID
	Name           string
	CreatedAt      time.Time
}

type Driver struct {
	ID             id.DriverID
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	FirstName      string
	LastName       string
	Phone          string
	CreatedAt      time.Time
}

func (d *Driver) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

type Vehicle struct {
	ID             id.VehicleID
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	Plate          string
	Type           VehicleType
	CreatedAt      time.Time
}

type Trailer struct {
	ID             id.TrailerID
	OrganizationID id.OrganizationID
	CarrierID      id.CarrierID
	Plate          string
	CreatedAt      time.Time
}

// CheckTrailerRule rejects a trailer bound to a vehicle that cannot tow one.
func CheckTrailerRule(vehicleType VehicleType, trailerID *id.TrailerID) error {
	if trailerID != nil && !vehicleType.IsTractorClass() {
		return dErrors.New(dErrors.CodeValidation, "a trailer can only be assigned to a tractor")
	}
	return nil
}
