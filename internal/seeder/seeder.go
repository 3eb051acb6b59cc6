// Package seeder fills an in-memory deployment with a demo organization so the
// dispatcher client has something to assign right after boot.
package seeder

import (
	"context"
	"fmt"
	"log/slog"

	contract "coldchain/contracts/session"
	authmodels "coldchain/internal/auth/models"
	authservice "coldchain/internal/auth/service"
	fleetmodels "coldchain/internal/fleet/models"
	fleetservice "coldchain/internal/fleet/service"
	orgmodels "coldchain/internal/org/models"
	orgservice "coldchain/internal/org/service"
	id "coldchain/pkg/domain"
	"coldchain/pkg/requestcontext"
)

// DemoPassword signs in every seeded account.
const DemoPassword = "cold-chain-demo"

const (
	OwnerEmail      = "owner@polar.example"
	DispatcherEmail = "dispatch@polar.example"
)

type Accounts interface {
	SignUp(ctx context.Context, cmd authservice.SignUpCommand) (*authmodels.TokenResult, error)
}

type Organizations interface {
	CreateOrganization(ctx context.Context, cmd orgservice.CreateOrganizationCommand) (*orgmodels.Organization, error)
	Invite(ctx context.Context, cmd orgservice.InviteCommand) (*orgmodels.Membership, error)
}

type Fleet interface {
	CreateCarrier(ctx context.Context, cmd fleetservice.CreateCarrierCommand) (*fleetmodels.Carrier, error)
	CreateDriver(ctx context.Context, cmd fleetservice.CreateDriverCommand) (*fleetmodels.Driver, error)
	CreateVehicle(ctx context.Context, cmd fleetservice.CreateVehicleCommand) (*fleetmodels.Vehicle, error)
	CreateTrailer(ctx context.Context, cmd fleetservice.CreateTrailerCommand) (*fleetmodels.Trailer, error)
	CreateReefer(ctx context.Context, cmd fleetservice.CreateReeferCommand) (*fleetmodels.ReeferUnit, error)
	CreateFleetSet(ctx context.Context, cmd fleetservice.FleetSetCommand) (*fleetmodels.FleetSet, error)
}

type Seeder struct {
	accounts Accounts
	orgs     Organizations
	fleet    Fleet
	logger   *slog.Logger
}

func New(accounts Accounts, orgs Organizations, fleet Fleet, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{accounts: accounts, orgs: orgs, fleet: fleet, logger: logger}
}

// Result lists what SeedAll created.
type Result struct {
	OrganizationID id.OrganizationID
	OwnerID        id.UserID
	DispatcherID   id.UserID
	CarrierID      id.CarrierID
	Vehicles       map[string]id.VehicleID
	Trailers       map[string]id.TrailerID
	Drivers        []id.DriverID
	FleetSetID     id.FleetSetID
}

// SeedAll creates an owner, an organization, an invited dispatcher and a small
// fleet with one active fleet set. It is not idempotent; run it once against
// empty stores.
func (s *Seeder) SeedAll(ctx context.Context) (*Result, error) {
	s.logger.InfoContext(ctx, "seeding demo data")

	owner, err := s.accounts.SignUp(ctx, authservice.SignUpCommand{
		Email: OwnerEmail, Password: DemoPassword, FirstName: "Olga", LastName: "Berg",
	})
	if err != nil {
		return nil, fmt.Errorf("seed owner: %w", err)
	}
	ctx = requestcontext.WithUserID(ctx, owner.UserID)

	org, err := s.orgs.CreateOrganization(ctx, orgservice.CreateOrganizationCommand{Name: "Polar Freight", OwnerID: owner.UserID})
	if err != nil {
		return nil, fmt.Errorf("seed organization: %w", err)
	}
	if _, err := s.orgs.Invite(ctx, orgservice.InviteCommand{
		OrganizationID: org.ID,
		Email:          DispatcherEmail,
		Role:           contract.RoleDispatcher,
		InvitedBy:      owner.UserID,
	}); err != nil {
		return nil, fmt.Errorf("seed invitation: %w", err)
	}
	dispatcher, err := s.accounts.SignUp(ctx, authservice.SignUpCommand{
		Email: DispatcherEmail, Password: DemoPassword, FirstName: "Ana", LastName: "Frost",
	})
	if err != nil {
		return nil, fmt.Errorf("seed dispatcher: %w", err)
	}

	out := &Result{
		OrganizationID: org.ID,
		OwnerID:        owner.UserID,
		DispatcherID:   dispatcher.UserID,
		Vehicles:       make(map[string]id.VehicleID),
		Trailers:       make(map[string]id.TrailerID),
	}
	if err := s.seedFleet(ctx, out); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "demo data seeded",
		"organization_id", org.ID.String(),
		"vehicles", len(out.Vehicles),
		"trailers", len(out.Trailers),
		"drivers", len(out.Drivers),
	)
	return out, nil
}

func (s *Seeder) seedFleet(ctx context.Context, out *Result) error {
	orgID := out.OrganizationID
	carrier, err := s.fleet.CreateCarrier(ctx, fleetservice.CreateCarrierCommand{OrganizationID: orgID, Name: "Polar Freight Carriers"})
	if err != nil {
		return fmt.Errorf("seed carrier: %w", err)
	}
	out.CarrierID = carrier.ID

	for _, name := range [][2]string{{"Ana", "Frost"}, {"Ben", "North"}} {
		d, err := s.fleet.CreateDriver(ctx, fleetservice.CreateDriverCommand{
			OrganizationID: orgID, CarrierID: carrier.ID, FirstName: name[0], LastName: name[1],
		})
		if err != nil {
			return fmt.Errorf("seed driver: %w", err)
		}
		out.Drivers = append(out.Drivers, d.ID)
	}

	vehicles := []struct {
		plate string
		kind  fleetmodels.VehicleType
	}{
		{"TRK-100", fleetmodels.VehicleTractor},
		{"TRK-200", fleetmodels.VehicleTractor},
		{"VAN-300", fleetmodels.VehicleReeferVan},
	}
	for _, v := range vehicles {
		created, err := s.fleet.CreateVehicle(ctx, fleetservice.CreateVehicleCommand{
			OrganizationID: orgID, CarrierID: carrier.ID, Plate: v.plate, Type: v.kind,
		})
		if err != nil {
			return fmt.Errorf("seed vehicle %s: %w", v.plate, err)
		}
		out.Vehicles[v.plate] = created.ID
	}

	for _, plate := range []string{"TRL-10", "TRL-20"} {
		t, err := s.fleet.CreateTrailer(ctx, fleetservice.CreateTrailerCommand{OrganizationID: orgID, CarrierID: carrier.ID, Plate: plate})
		if err != nil {
			return fmt.Errorf("seed trailer %s: %w", plate, err)
		}
		out.Trailers[plate] = t.ID
		if _, err := s.fleet.CreateReefer(ctx, fleetservice.CreateReeferCommand{
			OrganizationID: orgID,
			SerialNumber:   "TK-" + plate,
			Model:          "Thermo King SLXi",
			Owner:          fleetmodels.TrailerOwner{TrailerID: t.ID},
		}); err != nil {
			return fmt.Errorf("seed reefer for %s: %w", plate, err)
		}
	}

	driver := out.Drivers[0]
	trailer := out.Trailers["TRL-10"]
	set, err := s.fleet.CreateFleetSet(ctx, fleetservice.FleetSetCommand{
		OrganizationID: orgID,
		CarrierID:      carrier.ID,
		DriverID:       &driver,
		VehicleID:      out.Vehicles["TRK-100"],
		TrailerID:      &trailer,
	})
	if err != nil {
		return fmt.Errorf("seed fleet set: %w", err)
	}
	out.FleetSetID = set.ID
	return nil
}
