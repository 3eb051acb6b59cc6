package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	authcontract "coldchain/contracts/auth"
	fleetcontract "coldchain/contracts/fleet"
	contract "coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
)

// fakeBackend serves the slice of the API dispatchctl talks to.
type fakeBackend struct {
	mu           sync.Mutex
	noMembership bool
	vehicleType  string
	conflict     bool
	creates      int
	validations  int
	logouts      int
	validFrom    *time.Time

	userID  id.UserID
	orgID   id.OrganizationID
	otherVh id.VehicleID
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		vehicleType: fleetcontract.VehicleTypeTractor,
		userID:      id.UserID(uuid.New()),
		orgID:       id.OrganizationID(uuid.New()),
		otherVh:     id.VehicleID(uuid.New()),
	}
}

func (f *fakeBackend) update(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeBackend) counts() (validations, creates, logouts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validations, f.creates, f.logouts
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/token", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, authcontract.TokenResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			ExpiresIn:    3600,
			UserID:       f.userID,
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /session", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.noMembership {
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "no active membership"))
			return
		}
		membership := contract.Membership{
			ID:             id.MembershipID(uuid.New()),
			OrganizationID: f.orgID,
			Email:          "ana@polar.example",
			Role:           contract.RoleDispatcher,
			Status:         contract.MembershipActive,
		}
		httputil.WriteJSON(w, http.StatusOK, contract.Session{
			User:               contract.User{ID: f.userID, Email: "ana@polar.example", FirstName: "Ana"},
			ActiveOrganization: &contract.Organization{ID: f.orgID, Name: "Polar Freight", Status: "active"},
			Membership:         &membership,
			Memberships:        []contract.Membership{membership},
		})
	})
	mux.HandleFunc("GET /vehicles/{id}", func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := id.ParseVehicleID(r.PathValue("id"))
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "bad id"))
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		httputil.WriteJSON(w, http.StatusOK, fleetcontract.Vehicle{ID: vehicleID, OrganizationID: f.orgID, Plate: "TRK-200", Type: f.vehicleType})
	})
	mux.HandleFunc("POST /fleet-sets/validate", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.validations++
		var result fleetcontract.ValidationResult
		if f.conflict {
			result.Driver = fleetcontract.ReassignmentInfo{
				HasConflict:         true,
				CurrentVehicleID:    &f.otherVh,
				CurrentVehiclePlate: "TRK-100",
				Message:             "Driver is currently assigned to TRK-100.",
			}
		}
		httputil.WriteJSON(w, http.StatusOK, result)
	})
	mux.HandleFunc("POST /fleet-sets", func(w http.ResponseWriter, r *http.Request) {
		var in fleetcontract.FleetSetRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "bad body"))
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates++
		f.validFrom = in.ValidFrom
		httputil.WriteJSON(w, http.StatusCreated, fleetcontract.FleetSet{ID: id.FleetSetID(uuid.New()), OrganizationID: f.orgID, Active: true})
	})
	return mux
}

type CLISuite struct {
	suite.Suite
	backend *fakeBackend
	srv     *httptest.Server
	dir     string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	s.backend = newFakeBackend()
	s.srv = httptest.NewServer(s.backend.handler())
	s.dir = s.T().TempDir()
}

func (s *CLISuite) TearDownTest() {
	s.srv.Close()
}

// run executes one dispatchctl invocation against the fake backend.
func (s *CLISuite) run(stdin string, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	env := Env{
		In:     strings.NewReader(stdin),
		Out:    &out,
		Err:    &errOut,
		Getenv: func(string) string { return "" },
	}
	base := []string{"--config", filepath.Join(s.dir, "config.yaml"), "--base-url", s.srv.URL}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := Run(ctx, env, append(base, args...))
	return out.String(), err
}

func (s *CLISuite) login() {
	_, err := s.run("", "login", "--email", "ana@polar.example", "--password", "pw")
	s.Require().NoError(err)
}

func (s *CLISuite) assignArgs() []string {
	return []string{
		"assign",
		"--carrier", uuid.NewString(),
		"--vehicle", uuid.NewString(),
		"--driver", uuid.NewString(),
	}
}

func (s *CLISuite) TestLoginSavesCredentialsAndPrintsSession() {
	out, err := s.run("", "login", "--email", "ana@polar.example", "--password", "pw")
	s.Require().NoError(err)

	s.Contains(out, "Polar Freight")
	s.Contains(out, "dispatcher")
	raw, err := os.ReadFile(filepath.Join(s.dir, "credentials.yaml"))
	s.Require().NoError(err)
	s.Contains(string(raw), "refresh-1")
}

func (s *CLISuite) TestPasswordIsReadFromStdin() {
	out, err := s.run("pw\n", "login", "--email", "ana@polar.example")
	s.Require().NoError(err)
	s.Contains(out, "Polar Freight")
}

func (s *CLISuite) TestLoginWithoutMembership() {
	s.backend.update(func(f *fakeBackend) { f.noMembership = true })

	out, err := s.run("", "login", "--email", "ana@polar.example", "--password", "pw")
	s.Require().NoError(err)
	s.Contains(out, "no active organization membership")
}

func (s *CLISuite) TestSessionIsRestoredFromSavedCredentials() {
	s.login()

	out, err := s.run("", "session")
	s.Require().NoError(err)
	s.Contains(out, "ana@polar.example")
	s.Contains(out, "Polar Freight")
}

func (s *CLISuite) TestSessionWithoutLogin() {
	_, err := s.run("", "session")
	s.ErrorIs(err, errNotSignedIn)
}

func (s *CLISuite) TestAssignWithoutConflictsSaves() {
	s.login()

	out, err := s.run("", s.assignArgs()...)
	s.Require().NoError(err)
	s.Contains(out, "Saved fleet set")
	_, creates, _ := s.backend.counts()
	s.Equal(1, creates)
}

func (s *CLISuite) TestAssignConflictConfirmed() {
	s.backend.update(func(f *fakeBackend) { f.conflict = true })
	s.login()

	out, err := s.run("y\n", s.assignArgs()...)
	s.Require().NoError(err)
	s.Contains(out, "Driver is currently assigned to TRK-100.")
	s.Contains(out, "Saved fleet set")
	_, creates, _ := s.backend.counts()
	s.Equal(1, creates)
}

func (s *CLISuite) TestAssignConflictDeclined() {
	s.backend.update(func(f *fakeBackend) { f.conflict = true })
	s.login()

	out, err := s.run("n\n", s.assignArgs()...)
	s.ErrorIs(err, errAssignmentCancelled)
	s.Contains(out, "Driver is currently assigned to TRK-100.")
	_, creates, _ := s.backend.counts()
	s.Equal(0, creates)
}

func (s *CLISuite) TestAssignConflictWithYesFlag() {
	s.backend.update(func(f *fakeBackend) { f.conflict = true })
	s.login()

	_, err := s.run("", append(s.assignArgs(), "--yes")...)
	s.Require().NoError(err)
	_, creates, _ := s.backend.counts()
	s.Equal(1, creates)
}

func (s *CLISuite) TestAssignSendsValidFrom() {
	s.login()

	_, err := s.run("", append(s.assignArgs(), "--valid-from", "2026-03-01T06:00:00+01:00")...)
	s.Require().NoError(err)
	s.backend.update(func(f *fakeBackend) {
		s.Require().NotNil(f.validFrom)
		s.True(f.validFrom.Equal(time.Date(2026, 3, 1, 5, 0, 0, 0, time.UTC)))
	})
}

func (s *CLISuite) TestAssignWithoutValidFromLeavesItToTheServer() {
	s.login()

	_, err := s.run("", s.assignArgs()...)
	s.Require().NoError(err)
	s.backend.update(func(f *fakeBackend) {
		s.Nil(f.validFrom)
	})
}

func (s *CLISuite) TestAssignRejectsMalformedValidFrom() {
	s.login()

	_, err := s.run("", append(s.assignArgs(), "--valid-from", "tomorrow")...)
	s.ErrorContains(err, "--valid-from")
	_, creates, _ := s.backend.counts()
	s.Equal(0, creates)
}

func (s *CLISuite) TestTrailerOnVanIsRejectedBeforeValidation() {
	s.backend.update(func(f *fakeBackend) { f.vehicleType = "van" })
	s.login()

	out, err := s.run("", append(s.assignArgs(), "--trailer", uuid.NewString())...)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(out, "Nothing was saved.")
	validations, creates, _ := s.backend.counts()
	s.Equal(0, validations)
	s.Equal(0, creates)
}

func (s *CLISuite) TestAssignRejectsMalformedIDs() {
	s.login()

	_, err := s.run("", "assign", "--carrier", "nope", "--vehicle", uuid.NewString())
	s.ErrorContains(err, "--carrier")
}

func (s *CLISuite) TestLogoutRevokesAndForgets() {
	s.login()

	out, err := s.run("", "logout")
	s.Require().NoError(err)
	s.Contains(out, "Signed out.")
	_, _, logouts := s.backend.counts()
	s.Equal(1, logouts)
	s.NoFileExists(filepath.Join(s.dir, "credentials.yaml"))

	_, err = s.run("", "session")
	s.ErrorIs(err, errNotSignedIn)
}

func (s *CLISuite) TestConfigInitWritesProfile() {
	out, err := s.run("", "config", "init")
	s.Require().NoError(err)
	s.Contains(out, "config.yaml")

	p, err := LoadProfile(filepath.Join(s.dir, "config.yaml"), func(string) string { return "" })
	s.Require().NoError(err)
	s.Equal(s.srv.URL, p.BaseURL)

	_, err = s.run("", "config", "init")
	s.ErrorContains(err, "--force")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := NewRootCommand(Env{Getenv: func(string) string { return "" }})

	want := []string{"login", "signup", "logout", "session", "profile", "org", "vehicles", "fleet-sets", "assign", "watch", "config"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
		})
	}
}
