package handler

import (
	"time"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/internal/fleet/models"
	id "coldchain/pkg/domain"
)

type CarrierResponse struct {
	ID        id.CarrierID `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`
}

type DriverResponse struct {
	ID        id.DriverID  `json:"id"`
	CarrierID id.CarrierID `json:"carrier_id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	FullName  string       `json:"full_name"`
	Phone     string       `json:"phone,omitempty"`
}

type TrailerResponse struct {
	ID        id.TrailerID `json:"id"`
	CarrierID id.CarrierID `json:"carrier_id"`
	Plate     string       `json:"plate"`
}

type ReeferResponse struct {
	ID             id.ReeferID `json:"id"`
	SerialNumber   string      `json:"serial_number"`
	Model          string      `json:"model,omitempty"`
	OwnerKind      string      `json:"owner_kind"`
	OwnerID        string      `json:"owner_id"`
	DeviceIdent    string      `json:"device_ident,omitempty"`
	FlespiDeviceID int64       `json:"flespi_device_id,omitempty"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func toList[M, R any](items []M, conv func(M) R) ListResponse[R] {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return ListResponse[R]{Items: out, Count: len(out)}
}

func toCarrierResponse(c *models.Carrier) CarrierResponse {
	return CarrierResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func toDriverResponse(d *models.Driver) DriverResponse {
	return DriverResponse{
		ID:        d.ID,
		CarrierID: d.CarrierID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		FullName:  d.FullName(),
		Phone:     d.Phone,
	}
}

func toVehicleResponse(v *models.Vehicle) fleetcontract.Vehicle {
	return fleetcontract.Vehicle{
		ID:             v.ID,
		OrganizationID: v.OrganizationID,
		CarrierID:      v.CarrierID,
		Plate:          v.Plate,
		Type:           string(v.Type),
	}
}

func toTrailerResponse(t *models.Trailer) TrailerResponse {
	return TrailerResponse{ID: t.ID, CarrierID: t.CarrierID, Plate: t.Plate}
}

func toReeferResponse(r *models.ReeferUnit) ReeferResponse {
	return ReeferResponse{
		ID:             r.ID,
		SerialNumber:   r.SerialNumber,
		Model:          r.Model,
		OwnerKind:      string(r.Owner.Kind()),
		OwnerID:        r.Owner.OwnerID(),
		DeviceIdent:    r.DeviceIdent,
		FlespiDeviceID: r.FlespiDeviceID,
	}
}

func toFleetSetResponse(f *models.FleetSet) fleetcontract.FleetSet {
	return fleetcontract.FleetSet{
		ID:             f.ID,
		OrganizationID: f.OrganizationID,
		CarrierID:      f.CarrierID,
		DriverID:       f.DriverID,
		VehicleID:      f.VehicleID,
		TrailerID:      f.TrailerID,
		ValidFrom:      f.ValidFrom,
		ValidTo:        f.ValidTo,
		Active:         f.Active,
	}
}
