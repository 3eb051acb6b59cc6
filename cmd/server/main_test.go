package main

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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	authcontract "coldchain/contracts/auth"
	fleetcontract "coldchain/contracts/fleet"
	contract "coldchain/contracts/session"
	"coldchain/internal/dashboard/assignment"
	"coldchain/internal/dashboard/backend"
	"coldchain/internal/dashboard/identity"
	"coldchain/internal/dashboard/session"
	jwttoken "coldchain/internal/jwt_token"
	"coldchain/internal/platform/config"
	"coldchain/internal/seeder"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
)

type recordingView struct {
	conflicts []string
	closed    int
	saved     []*fleetcontract.FleetSet
	errs      []error
}

func (v *recordingView) ShowConflicts(m []string)          { v.conflicts = m }
func (v *recordingView) Close()                            { v.closed++ }
func (v *recordingView) Saved(set *fleetcontract.FleetSet) { v.saved = append(v.saved, set) }
func (v *recordingView) Restore(assignment.Candidate)      {}
func (v *recordingView) Notify(err error)                  { v.errs = append(v.errs, err) }

// ServerSuite runs the in-memory backend behind a real listener and drives it
// with the dispatcher client packages.
type ServerSuite struct {
	suite.Suite
	ctx      context.Context
	server   *httptest.Server
	mods     *modules
	client   *backend.Client
	provider *identity.Provider
	store    *session.Store
	sync     *session.Synchronizer
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	s.ctx = context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Server{
		Environment:   "test",
		JWTSigningKey: "test-signing-key",
		JWTIssuer:     "coldchain",
		TokenTTL:      5 * time.Minute,
		RefreshTTL:    time.Hour,
	}

	infra, err := buildInfra(s.ctx, cfg, log)
	s.Require().NoError(err)
	s.T().Cleanup(infra.Close)

	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, "coldchain-api", cfg.TokenTTL)
	reg := prometheus.NewRegistry()
	mods, err := buildModules(cfg, infra, tokens, reg, log)
	s.Require().NoError(err)
	s.mods = mods

	s.server = httptest.NewServer(newRouter(cfg, infra, mods, jwttoken.NewJWTServiceAdapter(tokens), reg, log))
	s.T().Cleanup(s.server.Close)

	s.client = backend.New(backend.Config{BaseURL: s.server.URL}, backend.WithLogger(log))
	s.provider = identity.New(s.client, &identity.MemoryStore{}, identity.WithLogger(log))
	s.client.SetTokenSource(s.provider)
	s.store = session.NewStore()
	s.sync = session.NewSynchronizer(s.client, s.store, session.WithSyncLogger(log))
}

type created struct {
	ID uuid.UUID `json:"id"`
}

func (s *ServerSuite) post(path string, body any) uuid.UUID {
	token, err := s.provider.AccessToken(s.ctx)
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.server.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, path)

	var out created
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out.ID
}

func (s *ServerSuite) signUpWithOrganization() {
	s.Require().NoError(s.provider.SignUp(s.ctx, authcontract.SignUp{
		Email:     "dispatch@polar.example",
		Password:  "correct-horse-battery",
		FirstName: "Ada",
	}))
	_, err := s.client.CreateOrganization(s.ctx, "Polar Freight")
	s.Require().NoError(err)
	_, err = s.sync.Sync(s.ctx)
	s.Require().NoError(err)
}

func (s *ServerSuite) TestHealthAndMetrics() {
	resp, err := http.Get(s.server.URL + "/health/live")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, err = http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *ServerSuite) TestProtectedRoutesRequireToken() {
	resp, err := http.Get(s.server.URL + "/session")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *ServerSuite) TestNewUserWithoutMembershipIsDenied() {
	s.Require().NoError(s.provider.SignUp(s.ctx, authcontract.SignUp{
		Email:    "new@polar.example",
		Password: "correct-horse-battery",
	}))

	_, err := s.sync.Sync(s.ctx)

	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.False(s.store.Authenticated())

	_, err = s.client.ListFleetSets(s.ctx, true)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServerSuite) TestOrganizationOwnerSession() {
	s.signUpWithOrganization()

	current := s.store.Current()
	s.Require().NotNil(current)
	s.Require().NotNil(current.ActiveOrganization)
	s.Equal("Polar Freight", current.ActiveOrganization.Name)
	s.Equal(contract.RoleOwner, current.Membership.Role)
	s.Equal("Ada", current.User.FirstName)
}

func (s *ServerSuite) TestReassignmentNeedsConfirmation() {
	s.signUpWithOrganization()

	carrierID := id.CarrierID(s.post("/carriers", map[string]string{"name": "Polar Carrier"}))
	driverID := id.DriverID(s.post("/drivers", map[string]string{"carrier_id": carrierID.String(), "first_name": "Lin"}))
	first := id.VehicleID(s.post("/vehicles", map[string]string{"carrier_id": carrierID.String(), "plate": "TRK-100", "type": "tractor"}))
	second := id.VehicleID(s.post("/vehicles", map[string]string{"carrier_id": carrierID.String(), "plate": "TRK-200", "type": "tractor"}))
	trailerID := id.TrailerID(s.post("/trailers", map[string]string{"carrier_id": carrierID.String(), "plate": "TRL-300"}))

	view := &recordingView{}
	flow := assignment.NewFlow(s.client, view)

	out, err := flow.Save(s.ctx, assignment.Candidate{CarrierID: carrierID, DriverID: &driverID, VehicleID: first, TrailerID: &trailerID})
	s.Require().NoError(err)
	s.Equal(assignment.StateDone, out.State)

	out, err = flow.Save(s.ctx, assignment.Candidate{CarrierID: carrierID, DriverID: &driverID, VehicleID: second, TrailerID: &trailerID})
	s.Require().NoError(err)
	s.Require().Equal(assignment.StateAwaitingConfirmation, out.State)
	s.Equal([]string{"Driver and trailer are currently assigned to tractor TRK-100; the trailer will be dropped and re-hooked."}, view.conflicts)

	out, err = flow.Confirm(s.ctx)
	s.Require().NoError(err)
	s.Equal(assignment.StateDone, out.State)
	s.Equal(second, out.FleetSet.VehicleID)

	sets, err := s.client.ListFleetSets(s.ctx, true)
	s.Require().NoError(err)
	holders := 0
	for _, set := range sets {
		if set.DriverID != nil && *set.DriverID == driverID {
			holders++
			s.Equal(second, set.VehicleID)
		}
	}
	s.Equal(1, holders)
	s.Empty(view.errs)
}

func (s *ServerSuite) TestTrailerOnNonTractorRejectedLocally() {
	s.signUpWithOrganization()

	carrierID := id.CarrierID(s.post("/carriers", map[string]string{"name": "Polar Carrier"}))
	van := id.VehicleID(s.post("/vehicles", map[string]string{"carrier_id": carrierID.String(), "plate": "VAN-1", "type": "van"}))
	trailerID := id.TrailerID(s.post("/trailers", map[string]string{"carrier_id": carrierID.String(), "plate": "TRL-1"}))

	view := &recordingView{}
	flow := assignment.NewFlow(s.client, view)
	out, err := flow.Save(s.ctx, assignment.Candidate{CarrierID: carrierID, VehicleID: van, TrailerID: &trailerID})

	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal(assignment.StateIdle, out.State)
	s.Zero(view.closed)
}

func (s *ServerSuite) TestRepeatedWrongPasswordsLockSignIn() {
	s.signUpWithOrganization()

	var err error
	for range 6 {
		_, err = s.client.SignIn(s.ctx, "dispatch@polar.example", "wrong-password")
		if dErrors.HasCode(err, dErrors.CodeRateLimited) {
			break
		}
		s.Require().True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited))

	_, err = s.client.SignIn(s.ctx, "dispatch@polar.example", "correct-horse-battery")
	s.True(dErrors.HasCode(err, dErrors.CodeRateLimited), "the correct password is refused while locked")
}

func (s *ServerSuite) TestDemoSeedIsUsableByDispatcher() {
	s.Require().NoError(s.mods.seedDemo(s.ctx, slog.New(slog.NewTextHandler(io.Discard, nil))))

	s.Require().NoError(s.provider.SignIn(s.ctx, seeder.DispatcherEmail, seeder.DemoPassword))
	sess, err := s.sync.Sync(s.ctx)
	s.Require().NoError(err)
	s.Equal("Polar Freight", sess.ActiveOrganization.Name)
	s.Equal(contract.RoleDispatcher, sess.Membership.Role)

	sets, err := s.client.ListFleetSets(s.ctx, true)
	s.Require().NoError(err)
	s.Len(sets, 1)
	vehicles, err := s.client.ListVehicles(s.ctx)
	s.Require().NoError(err)
	s.Len(vehicles, 3)
}

func (s *ServerSuite) TestSignOutRevokesRefresh() {
	s.signUpWithOrganization()
	refresh := s.provider.Current().RefreshToken

	s.Require().NoError(s.provider.SignOut(s.ctx))

	_, err := s.client.Refresh(s.ctx, refresh)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	_, err = s.client.Session(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
