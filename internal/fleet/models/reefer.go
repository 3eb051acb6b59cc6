package models

import (
	"time"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type OwnerKind string

const (
	OwnerTrailer OwnerKind = "trailer"
	OwnerVehicle OwnerKind = "vehicle"
)

// ReeferOwner is the equipment a refrigeration unit is mounted on. The set
// of implementations is closed: TrailerOwner and VehicleOwner.
type ReeferOwner interface {
	Kind() OwnerKind
	OwnerID() string
	isReeferOwner()
}

type TrailerOwner struct {
	TrailerID id.TrailerID
}

func (TrailerOwner) Kind() OwnerKind   { return OwnerTrailer }
func (o TrailerOwner) OwnerID() string { return o.TrailerID.String() }
func (TrailerOwner) isReeferOwner()    {}

type VehicleOwner struct {
	VehicleID id.VehicleID
}

func (VehicleOwner) Kind() OwnerKind   { return OwnerVehicle }
func (o VehicleOwner) OwnerID() string { return o.VehicleID.String() }
func (VehicleOwner) isReeferOwner()    {}

// ParseOwner builds an owner from its persisted kind/id pair.
func ParseOwner(kind, ownerID string) (ReeferOwner, error) {
	switch OwnerKind(kind) {
	case OwnerTrailer:
		tid, err := id.ParseTrailerID(ownerID)
		if err != nil {
			return nil, err
		}
		return TrailerOwner{TrailerID: tid}, nil
	case OwnerVehicle:
		vid, err := id.ParseVehicleID(ownerID)
		if err != nil {
			return nil, err
		}
		return VehicleOwner{VehicleID: vid}, nil
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "owner kind must be trailer or vehicle")
	}
}

// ReeferUnit is refrigeration equipment mounted on exactly one trailer or vehicle.
type ReeferUnit struct {
	ID             id.ReeferID
	OrganizationID id.OrganizationID
	SerialNumber   string
	Model          string
	Owner          ReeferOwner
	DeviceIdent    string
	FlespiDeviceID int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func NewReeferUnit(reeferID id.ReeferID, orgID id.OrganizationID, serial, model string, owner ReeferOwner, now time.Time) (*ReeferUnit, error) {
	if owner == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reefer unit must have an owner")
	}
	if serial == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "reefer serial number is required")
	}
	return &ReeferUnit{
		ID:             reeferID,
		OrganizationID: orgID,
		SerialNumber:   serial,
		Model:          model,
		Owner:          owner,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// BindDevice records the telematics device reporting for this unit.
func (r *ReeferUnit) BindDevice(ident string, flespiID int64, now time.Time) error {
	if ident == "" || flespiID <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "device ident and vendor id are required")
	}
	r.DeviceIdent = ident
	r.FlespiDeviceID = flespiID
	r.UpdatedAt = now
	return nil
}
