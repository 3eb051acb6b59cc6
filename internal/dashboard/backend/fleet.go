package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	fleetcontract "coldchain/contracts/fleet"
	id "coldchain/pkg/domain"
)

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func (c *Client) Vehicle(ctx context.Context, vehicleID id.VehicleID) (*fleetcontract.Vehicle, error) {
	var out fleetcontract.Vehicle
	if err := c.do(ctx, request{method: http.MethodGet, path: "/vehicles/" + vehicleID.String(), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ValidateFleetSet(ctx context.Context, in fleetcontract.ValidateRequest) (*fleetcontract.ValidationResult, error) {
	var out fleetcontract.ValidationResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/fleet-sets/validate", body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateFleetSet(ctx context.Context, in fleetcontract.FleetSetRequest) (*fleetcontract.FleetSet, error) {
	var out fleetcontract.FleetSet
	if err := c.do(ctx, request{method: http.MethodPost, path: "/fleet-sets", body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateFleetSet(ctx context.Context, setID id.FleetSetID, in fleetcontract.FleetSetRequest) (*fleetcontract.FleetSet, error) {
	var out fleetcontract.FleetSet
	if err := c.do(ctx, request{method: http.MethodPut, path: "/fleet-sets/" + setID.String(), body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EndFleetSet(ctx context.Context, setID id.FleetSetID) (*fleetcontract.FleetSet, error) {
	var out fleetcontract.FleetSet
	if err := c.do(ctx, request{method: http.MethodPost, path: "/fleet-sets/" + setID.String() + "/end", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListFleetSets(ctx context.Context, activeOnly bool) ([]fleetcontract.FleetSet, error) {
	var out listResponse[fleetcontract.FleetSet]
	q := url.Values{}
	if activeOnly {
		q.Set("active", strconv.FormatBool(true))
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/fleet-sets", query: q, auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListVehicles(ctx context.Context) ([]fleetcontract.Vehicle, error) {
	var out listResponse[fleetcontract.Vehicle]
	if err := c.do(ctx, request{method: http.MethodGet, path: "/vehicles", auth: true}, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}
