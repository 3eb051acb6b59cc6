package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	fleetmetrics "coldchain/internal/fleet/metrics"
	"coldchain/internal/fleet/models"
	"coldchain/internal/fleet/service"
	"coldchain/internal/fleet/store/memory"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/audit"
	auditmemory "coldchain/pkg/platform/audit/store/memory"
	"coldchain/pkg/requestcontext"
	pkgtestutil "coldchain/pkg/testutil"
)

// recordingEmitter appends synchronously so assertions need no waiting.
type recordingEmitter struct {
	store *auditmemory.InMemoryStore
}

func (e recordingEmitter) Emit(ctx context.Context, event audit.Event) error {
	return e.store.Append(ctx, event)
}

type FleetServiceSuite struct {
	suite.Suite
	store   *memory.Store
	events  *auditmemory.InMemoryStore
	metrics *fleetmetrics.Metrics
	svc     *service.Service
	ctx     context.Context
	now     time.Time

	orgID     id.OrganizationID
	carrierID id.CarrierID
	tractorA  *models.Vehicle
	tractorB  *models.Vehicle
	van       *models.Vehicle
}

func TestFleetServiceSuite(t *testing.T) {
	suite.Run(t, new(FleetServiceSuite))
}

func (s *FleetServiceSuite) SetupTest() {
	s.store = memory.New()
	s.events = auditmemory.NewInMemoryStore()
	s.metrics = fleetmetrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = service.New(s.store, s.store,
		service.WithLogger(logger),
		service.WithMetrics(s.metrics),
		service.WithAuditLogger(audit.NewLogger(logger, recordingEmitter{store: s.events})),
	)

	s.now = time.Date(2026, 5, 4, 6, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithNow(context.Background(), s.now)
	s.ctx = requestcontext.WithUserID(s.ctx, id.UserID(uuid.New()))
	s.orgID = id.OrganizationID(uuid.New())

	carrier, err := s.svc.CreateCarrier(s.ctx, service.CreateCarrierCommand{OrganizationID: s.orgID, Name: "Polar Freight"})
	s.Require().NoError(err)
	s.carrierID = carrier.ID
	s.tractorA = s.mustVehicle("TRK-A", models.VehicleTractor)
	s.tractorB = s.mustVehicle("TRK-B", models.VehicleTractor)
	s.van = s.mustVehicle("VAN-C", models.VehicleVan)
}

func (s *FleetServiceSuite) mustVehicle(plate string, vt models.VehicleType) *models.Vehicle {
	v, err := s.svc.CreateVehicle(s.ctx, service.CreateVehicleCommand{
		OrganizationID: s.orgID, CarrierID: s.carrierID, Plate: plate, Type: vt,
	})
	s.Require().NoError(err)
	return v
}

func (s *FleetServiceSuite) mustDriver(first string) *id.DriverID {
	d, err := s.svc.CreateDriver(s.ctx, service.CreateDriverCommand{
		OrganizationID: s.orgID, CarrierID: s.carrierID, FirstName: first,
	})
	s.Require().NoError(err)
	return &d.ID
}

func (s *FleetServiceSuite) mustTrailer(plate string) *id.TrailerID {
	t, err := s.svc.CreateTrailer(s.ctx, service.CreateTrailerCommand{
		OrganizationID: s.orgID, CarrierID: s.carrierID, Plate: plate,
	})
	s.Require().NoError(err)
	return &t.ID
}

func (s *FleetServiceSuite) cmd(vehicleID id.VehicleID, driverID *id.DriverID, trailerID *id.TrailerID) service.FleetSetCommand {
	return service.FleetSetCommand{
		OrganizationID: s.orgID,
		CarrierID:      s.carrierID,
		DriverID:       driverID,
		VehicleID:      vehicleID,
		TrailerID:      trailerID,
	}
}

func (s *FleetServiceSuite) TestCreateReleasesDriverAndTrailerFromPreviousSet() {
	driver := s.mustDriver("Ana")
	trailer := s.mustTrailer("TRL-1")
	first, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, driver, trailer))
	s.Require().NoError(err)

	second, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorB.ID, driver, trailer))
	s.Require().NoError(err)

	previous, err := s.store.FindByID(s.ctx, s.orgID, first.ID)
	s.Require().NoError(err)
	s.True(previous.Active, "vehicle A keeps its set without the moved resources")
	s.Nil(previous.DriverID)
	s.Nil(previous.TrailerID)
	s.True(second.HasDriver(*driver))
	s.True(second.HasTrailer(*trailer))
	s.Equal(2.0, testutil.ToFloat64(s.metrics.FleetSetsCreated))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ResourcesReleased.WithLabelValues("driver")))
}

func (s *FleetServiceSuite) TestCreateEndsVehiclePreviousSet() {
	first, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, s.mustDriver("Ana"), nil))
	s.Require().NoError(err)

	_, err = s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, s.mustDriver("Ben"), nil))
	s.Require().NoError(err)

	previous, err := s.store.FindByID(s.ctx, s.orgID, first.ID)
	s.Require().NoError(err)
	s.False(previous.Active)
	s.Require().NotNil(previous.ValidTo)
	s.Equal(s.now, *previous.ValidTo)

	active, err := s.svc.ListFleetSets(s.ctx, s.orgID, true)
	s.Require().NoError(err)
	s.Len(active, 1)
}

func (s *FleetServiceSuite) TestCreateRejectsTrailerOnNonTractor() {
	_, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.van.ID, nil, s.mustTrailer("TRL-2")))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *FleetServiceSuite) TestCreateRejectsUnknownDriver() {
	ghost := id.DriverID(uuid.New())
	_, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, &ghost, nil))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FleetServiceSuite) TestCreateIsOrganizationScoped() {
	other := s.cmd(s.tractorA.ID, nil, nil)
	other.OrganizationID = id.OrganizationID(uuid.New())
	_, err := s.svc.CreateFleetSet(s.ctx, other)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *FleetServiceSuite) TestCreateEmitsAudit() {
	set, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, nil, nil))
	s.Require().NoError(err)

	recent := s.events.ListRecent(1)
	s.Require().Len(recent, 1)
	s.Equal(string(audit.EventFleetSetCreated), recent[0].Action)
	s.Equal(set.ID.String(), recent[0].Subject)
	s.Equal(s.orgID.String(), recent[0].OrganizationID)
}

func (s *FleetServiceSuite) TestUpdateMovesDriverOffOtherSet() {
	driver := s.mustDriver("Ana")
	holder, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, driver, nil))
	s.Require().NoError(err)
	editing, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorB.ID, nil, nil))
	s.Require().NoError(err)

	updated, err := s.svc.UpdateFleetSet(s.ctx, editing.ID, s.cmd(s.tractorB.ID, driver, nil))
	s.Require().NoError(err)
	s.True(updated.HasDriver(*driver))

	previous, err := s.store.FindByID(s.ctx, s.orgID, holder.ID)
	s.Require().NoError(err)
	s.Nil(previous.DriverID)
	s.True(previous.Active)
}

func (s *FleetServiceSuite) TestUpdateEndedSetConflicts() {
	set, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, nil, nil))
	s.Require().NoError(err)
	_, err = s.svc.EndFleetSet(s.ctx, s.orgID, set.ID)
	s.Require().NoError(err)

	_, err = s.svc.UpdateFleetSet(s.ctx, set.ID, s.cmd(s.tractorA.ID, nil, nil))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *FleetServiceSuite) TestEndTwiceConflicts() {
	set, err := s.svc.CreateFleetSet(s.ctx, s.cmd(s.tractorA.ID, nil, nil))
	s.Require().NoError(err)

	ended, err := s.svc.EndFleetSet(s.ctx, s.orgID, set.ID)
	s.Require().NoError(err)
	s.False(ended.Active)

	_, err = s.svc.EndFleetSet(s.ctx, s.orgID, set.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *FleetServiceSuite) TestDuplicatePlateConflicts() {
	_, err := s.svc.CreateVehicle(s.ctx, service.CreateVehicleCommand{
		OrganizationID: s.orgID, CarrierID: s.carrierID, Plate: "TRK-A", Type: models.VehicleTractor,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *FleetServiceSuite) TestBindReeferDevice() {
	trailer := s.mustTrailer("TRL-9")
	reefer, err := s.svc.CreateReefer(s.ctx, service.CreateReeferCommand{
		OrganizationID: s.orgID,
		SerialNumber:   "TK-0001",
		Model:          "Thermo King SLXi",
		Owner:          models.TrailerOwner{TrailerID: *trailer},
	})
	s.Require().NoError(err)

	bound, err := s.svc.BindReeferDevice(s.ctx, s.orgID, reefer.ID, "356307042441013", 4242)
	s.Require().NoError(err)
	s.Equal(int64(4242), bound.FlespiDeviceID)

	_, err = s.svc.BindReeferDevice(s.ctx, s.orgID, reefer.ID, "", 0)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *FleetServiceSuite) TestReeferRequiresExistingOwner() {
	_, err := s.svc.CreateReefer(s.ctx, service.CreateReeferCommand{
		OrganizationID: s.orgID,
		SerialNumber:   "TK-0002",
		Owner:          models.VehicleOwner{VehicleID: id.VehicleID(uuid.New())},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// Concurrent creates for one driver leave exactly one active binding.
func (s *FleetServiceSuite) TestConcurrentCreatesKeepOneActiveDriverBinding() {
	driver := s.mustDriver("Ana")
	vehicles := []*models.Vehicle{s.tractorA, s.tractorB, s.mustVehicle("TRK-D", models.VehicleTractor)}
	result := pkgtestutil.RunConcurrent(len(vehicles), func(i int) error {
		_, err := s.svc.CreateFleetSet(s.ctx, s.cmd(vehicles[i].ID, driver, nil))
		return err
	})
	s.Empty(result.Errs)
	s.Equal(len(vehicles), result.OK)

	active, err := s.svc.ListFleetSets(s.ctx, s.orgID, true)
	s.Require().NoError(err)
	holders := 0
	for _, set := range active {
		if set.HasDriver(*driver) {
			holders++
		}
	}
	s.Equal(1, holders)
}
