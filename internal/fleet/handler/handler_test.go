package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service,Validator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/internal/fleet/handler/mocks"
	"coldchain/internal/fleet/models"
	"coldchain/internal/fleet/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	service   *mocks.MockService
	validator *mocks.MockValidator
	router    chi.Router
	orgID     id.OrganizationID
	role      string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.validator = mocks.NewMockValidator(s.ctrl)
	s.orgID = id.OrganizationID(uuid.New())
	s.role = "dispatcher"

	h := New(s.service, s.validator, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if !s.orgID.IsNil() {
				ctx = requestcontext.WithMembership(ctx, s.orgID, s.role)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlerSuite) errorCode(w *httptest.ResponseRecorder) string {
	var resp httputil.ErrorResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func (s *HandlerSuite) TestValidateReturnsConflicts() {
	vehicleID := id.VehicleID(uuid.New())
	driverID := id.DriverID(uuid.New())
	origin := id.VehicleID(uuid.New())
	s.validator.EXPECT().Validate(gomock.Any(), service.ValidateQuery{
		OrganizationID: s.orgID,
		DriverID:       &driverID,
		VehicleID:      vehicleID,
	}).Return(&fleetcontract.ValidationResult{
		Driver: fleetcontract.ReassignmentInfo{
			HasConflict:         true,
			CurrentVehicleID:    &origin,
			CurrentVehiclePlate: "TRK-200",
			Message:             "Driver is currently assigned to vehicle TRK-200.",
		},
	}, nil)

	w := s.do(http.MethodPost, "/fleet-sets/validate", fleetcontract.ValidateRequest{
		DriverID:  &driverID,
		VehicleID: vehicleID,
	})

	s.Require().Equal(http.StatusOK, w.Code)
	var result fleetcontract.ValidationResult
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	s.True(result.Driver.HasConflict)
	s.Equal("TRK-200", result.Driver.CurrentVehiclePlate)
	s.Equal(origin, *result.Driver.CurrentVehicleID)
}

func (s *HandlerSuite) TestValidateRequiresVehicle() {
	w := s.do(http.MethodPost, "/fleet-sets/validate", map[string]string{})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation_error", s.errorCode(w))
}

func (s *HandlerSuite) TestValidateTrailerRuleIsBadRequest() {
	s.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "a trailer can only be assigned to a tractor"))

	trailerID := id.TrailerID(uuid.New())
	w := s.do(http.MethodPost, "/fleet-sets/validate", fleetcontract.ValidateRequest{
		VehicleID: id.VehicleID(uuid.New()),
		TrailerID: &trailerID,
	})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCreateFleetSet() {
	carrierID := id.CarrierID(uuid.New())
	vehicleID := id.VehicleID(uuid.New())
	created := &models.FleetSet{
		ID:             id.FleetSetID(uuid.New()),
		OrganizationID: s.orgID,
		CarrierID:      carrierID,
		VehicleID:      vehicleID,
		ValidFrom:      time.Now(),
		Active:         true,
	}
	s.service.EXPECT().CreateFleetSet(gomock.Any(), service.FleetSetCommand{
		OrganizationID: s.orgID,
		CarrierID:      carrierID,
		VehicleID:      vehicleID,
	}).Return(created, nil)

	w := s.do(http.MethodPost, "/fleet-sets", fleetcontract.FleetSetRequest{CarrierID: carrierID, VehicleID: vehicleID})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body fleetcontract.FleetSet
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(created.ID, body.ID)
	s.True(body.Active)
}

func (s *HandlerSuite) TestCreateFleetSetHonoursValidFrom() {
	from := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	s.service.EXPECT().CreateFleetSet(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd service.FleetSetCommand) (*models.FleetSet, error) {
			s.True(cmd.ValidFrom.Equal(from))
			return &models.FleetSet{ID: id.FleetSetID(uuid.New()), OrganizationID: s.orgID, ValidFrom: cmd.ValidFrom, Active: true}, nil
		})

	w := s.do(http.MethodPost, "/fleet-sets", fleetcontract.FleetSetRequest{
		CarrierID: id.CarrierID(uuid.New()),
		VehicleID: id.VehicleID(uuid.New()),
		ValidFrom: &from,
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body fleetcontract.FleetSet
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.True(body.ValidFrom.Equal(from))
}

func (s *HandlerSuite) TestCreateFleetSetConcurrentAssignmentIsConflict() {
	s.service.EXPECT().CreateFleetSet(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "a resource was assigned concurrently; validate again"))

	w := s.do(http.MethodPost, "/fleet-sets", fleetcontract.FleetSetRequest{
		CarrierID: id.CarrierID(uuid.New()),
		VehicleID: id.VehicleID(uuid.New()),
	})

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("conflict", s.errorCode(w))
}

func (s *HandlerSuite) TestViewerCannotChangeFleet() {
	s.role = "viewer"

	w := s.do(http.MethodPost, "/fleet-sets", fleetcontract.FleetSetRequest{
		CarrierID: id.CarrierID(uuid.New()),
		VehicleID: id.VehicleID(uuid.New()),
	})

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestViewerCanValidate() {
	s.role = "viewer"
	s.validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(&fleetcontract.ValidationResult{}, nil)

	w := s.do(http.MethodPost, "/fleet-sets/validate", fleetcontract.ValidateRequest{VehicleID: id.VehicleID(uuid.New())})

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestMissingOrganizationIsForbidden() {
	s.orgID = id.OrganizationID{}

	w := s.do(http.MethodGet, "/vehicles", nil)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestEndFleetSet() {
	setID := id.FleetSetID(uuid.New())
	now := time.Now()
	s.service.EXPECT().EndFleetSet(gomock.Any(), s.orgID, setID).Return(&models.FleetSet{
		ID: setID, OrganizationID: s.orgID, ValidTo: &now,
	}, nil)

	w := s.do(http.MethodPost, "/fleet-sets/"+setID.String()+"/end", nil)

	s.Require().Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestEndFleetSetRejectsBadID() {
	w := s.do(http.MethodPost, "/fleet-sets/not-a-uuid/end", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestListFleetSetsActiveFilter() {
	s.service.EXPECT().ListFleetSets(gomock.Any(), s.orgID, true).Return([]*models.FleetSet{}, nil)

	w := s.do(http.MethodGet, "/fleet-sets?active=true", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body ListResponse[fleetcontract.FleetSet]
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Zero(body.Count)
	s.NotNil(body.Items)
}

func (s *HandlerSuite) TestListFleetSetsRejectsBadFilter() {
	w := s.do(http.MethodGet, "/fleet-sets?active=maybe", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCreateVehicleNormalizesPlate() {
	carrierID := id.CarrierID(uuid.New())
	s.service.EXPECT().CreateVehicle(gomock.Any(), service.CreateVehicleCommand{
		OrganizationID: s.orgID,
		CarrierID:      carrierID,
		Plate:          "RF-101",
		Type:           models.VehicleTractor,
	}).DoAndReturn(func(_ context.Context, cmd service.CreateVehicleCommand) (*models.Vehicle, error) {
		return &models.Vehicle{ID: id.VehicleID(uuid.New()), OrganizationID: cmd.OrganizationID, Plate: cmd.Plate, Type: cmd.Type}, nil
	})

	w := s.do(http.MethodPost, "/vehicles", map[string]string{
		"carrier_id": carrierID.String(),
		"plate":      " rf-101 ",
		"type":       "Tractor",
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body fleetcontract.Vehicle
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("RF-101", body.Plate)
	s.Equal("tractor", body.Type)
}

func (s *HandlerSuite) TestCreateVehicleRejectsBadPlate() {
	w := s.do(http.MethodPost, "/vehicles", map[string]string{
		"carrier_id": uuid.NewString(),
		"plate":      "!",
		"type":       "tractor",
	})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestCreateReeferParsesOwner() {
	trailerID := id.TrailerID(uuid.New())
	s.service.EXPECT().CreateReefer(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd service.CreateReeferCommand) (*models.ReeferUnit, error) {
			s.Equal(models.TrailerOwner{TrailerID: trailerID}, cmd.Owner)
			return &models.ReeferUnit{ID: id.ReeferID(uuid.New()), SerialNumber: cmd.SerialNumber, Owner: cmd.Owner}, nil
		})

	w := s.do(http.MethodPost, "/reefers", map[string]string{
		"serial_number": "tk-0001",
		"owner_kind":    "trailer",
		"owner_id":      trailerID.String(),
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body ReeferResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal("TK-0001", body.SerialNumber)
	s.Equal("trailer", body.OwnerKind)
}
