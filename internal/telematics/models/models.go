package models

import (
	"strings"
	"time"

	id "coldchain/pkg/domain"
)

// Protocol is a Flespi channel protocol (a device communication dialect).
type Protocol struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Matches reports whether q appears in the protocol's name or title,
// ignoring case. An empty query matches everything.
func (p Protocol) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Title), q)
}

// DeviceType is a hardware model supported by a protocol.
type DeviceType struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
	ProtocolID int64  `json:"protocol_id"`
}

// Device is a device registered at the vendor.
type Device struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Ident        string `json:"ident"`
	DeviceTypeID int64  `json:"device_type_id"`
}

// DeviceSpec describes a device to register at the vendor.
type DeviceSpec struct {
	Name         string
	Ident        string
	DeviceTypeID int64
}

// ProvisionCommand registers a telemetry device for a reefer unit.
type ProvisionCommand struct {
	OrganizationID id.OrganizationID
	ReeferID       id.ReeferID
	Ident          string
	DeviceTypeID   int64
	Name           string
}

// Provisioned is the result of binding a vendor device to a reefer unit.
type Provisioned struct {
	ReeferID id.ReeferID
	Device   Device
}

// Catalog is a snapshot of protocols and their device types.
type Catalog struct {
	Protocols   []Protocol
	DeviceTypes map[int64][]DeviceType
	SyncedAt    time.Time
}

// SyncReport summarizes a catalog sync.
type SyncReport struct {
	Protocols   int           `json:"protocols"`
	DeviceTypes int           `json:"device_types"`
	Failed      []int64       `json:"failed_protocols,omitempty"`
	Duration    time.Duration `json:"-"`
	SyncedAt    time.Time     `json:"synced_at"`
}
