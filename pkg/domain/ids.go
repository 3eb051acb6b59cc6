// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "coldchain/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing DriverID where VehicleID is expected.
type (
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	MembershipID   uuid.UUID
	CarrierID      uuid.UUID
	DriverID       uuid.UUID
	VehicleID      uuid.UUID
	TrailerID      uuid.UUID
	FleetSetID     uuid.UUID
	ReeferID       uuid.UUID
	SessionID      uuid.UUID
)

// Parse functions - use at trust boundaries (handlers, API inputs).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseOrganizationID(s string) (OrganizationID, error) {
	id, err := parseUUID(s, "organization ID")
	return OrganizationID(id), err
}

func ParseMembershipID(s string) (MembershipID, error) {
	id, err := parseUUID(s, "membership ID")
	return MembershipID(id), err
}

func ParseCarrierID(s string) (CarrierID, error) {
	id, err := parseUUID(s, "carrier ID")
	return CarrierID(id), err
}

func ParseDriverID(s string) (DriverID, error) {
	id, err := parseUUID(s, "driver ID")
	return DriverID(id), err
}

func ParseVehicleID(s string) (VehicleID, error) {
	id, err := parseUUID(s, "vehicle ID")
	return VehicleID(id), err
}

func ParseTrailerID(s string) (TrailerID, error) {
	id, err := parseUUID(s, "trailer ID")
	return TrailerID(id), err
}

func ParseFleetSetID(s string) (FleetSetID, error) {
	id, err := parseUUID(s, "fleet set ID")
	return FleetSetID(id), err
}

func ParseReeferID(s string) (ReeferID, error) {
	id, err := parseUUID(s, "reefer ID")
	return ReeferID(id), err
}

func ParseSessionID(s string) (SessionID, error) {
	id, err := parseUUID(s, "session ID")
	return SessionID(id), err
}

// ParseOptionalDriverID returns nil for an empty string.
func ParseOptionalDriverID(s string) (*DriverID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseDriverID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseOptionalTrailerID returns nil for an empty string.
func ParseOptionalTrailerID(s string) (*TrailerID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := ParseTrailerID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// String methods - for logging and debugging.

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id OrganizationID) String() string { return uuid.UUID(id).String() }
func (id MembershipID) String() string   { return uuid.UUID(id).String() }
func (id CarrierID) String() string      { return uuid.UUID(id).String() }
func (id DriverID) String() string       { return uuid.UUID(id).String() }
func (id VehicleID) String() string      { return uuid.UUID(id).String() }
func (id TrailerID) String() string      { return uuid.UUID(id).String() }
func (id FleetSetID) String() string     { return uuid.UUID(id).String() }
func (id ReeferID) String() string       { return uuid.UUID(id).String() }
func (id SessionID) String() string      { return uuid.UUID(id).String() }

// IsNil checks - used for service-layer validation.

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id OrganizationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id MembershipID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CarrierID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id DriverID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id VehicleID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id TrailerID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id FleetSetID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id ReeferID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps IDs as canonical strings in JSON and YAML.

func (id UserID) MarshalText() ([]byte, error)         { return uuid.UUID(id).MarshalText() }
func (id OrganizationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id MembershipID) MarshalText() ([]byte, error)   { return uuid.UUID(id).MarshalText() }
func (id CarrierID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id DriverID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id VehicleID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id TrailerID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }
func (id FleetSetID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id ReeferID) MarshalText() ([]byte, error)       { return uuid.UUID(id).MarshalText() }
func (id SessionID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }

func (id *UserID) UnmarshalText(b []byte) error         { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *OrganizationID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *MembershipID) UnmarshalText(b []byte) error   { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *CarrierID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *DriverID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *VehicleID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *TrailerID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *FleetSetID) UnmarshalText(b []byte) error     { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *ReeferID) UnmarshalText(b []byte) error       { return (*uuid.UUID)(id).UnmarshalText(b) }
func (id *SessionID) UnmarshalText(b []byte) error      { return (*uuid.UUID)(id).UnmarshalText(b) }

// parseUUID is the shared validation logic.
// Note: Nil UUIDs are allowed here. Use IsNil() at the service layer for
// business validation, which allows store lookups to return proper
// "not found" errors for consistency.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	return id, nil
}
