package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/contracts/session"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
)

type staticToken string

func (t staticToken) AccessToken(context.Context) (string, error) { return string(t), nil }

type failingToken struct{ err error }

func (t failingToken) AccessToken(context.Context) (string, error) { return "", t.err }

func newClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/"}, opts...)
}

func TestSessionSendsBearerToken(t *testing.T) {
	userID := id.UserID(uuid.New())
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/session", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		httputil.WriteJSON(w, http.StatusOK, session.Session{User: session.User{ID: userID, Email: "ana@polar.example"}, IsPlatformOperator: true})
	}, WithTokenSource(staticToken("tok-1")))

	got, err := c.Session(context.Background())
	require.NoError(t, err)
	assert.Equal(t, userID, got.User.ID)
	assert.True(t, got.IsPlatformOperator)
}

func TestAuthenticatedCallWithoutTokenSource(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:0"})

	_, err := c.Session(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestTokenSourceErrorIsReturned(t *testing.T) {
	want := dErrors.New(dErrors.CodeUnauthorized, "signed out")
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}, WithTokenSource(failingToken{err: want}))

	_, err := c.Session(context.Background())
	assert.Equal(t, want, err)
}

func TestErrorEnvelopeMapsToDomainCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		code   dErrors.Code
	}{
		{"forbidden", http.StatusForbidden, httputil.ErrorResponse{Error: "forbidden", ErrorDescription: "no active membership"}, dErrors.CodeForbidden},
		{"validation", http.StatusBadRequest, httputil.ErrorResponse{Error: "validation_error"}, dErrors.CodeValidation},
		{"conflict", http.StatusConflict, httputil.ErrorResponse{Error: "conflict"}, dErrors.CodeConflict},
		{"bare 502", http.StatusBadGateway, "upstream down", dErrors.CodeUnavailable},
		{"bare 500", http.StatusInternalServerError, nil, dErrors.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				httputil.WriteJSON(w, tt.status, tt.body)
			}, WithTokenSource(staticToken("tok")))

			_, err := c.Session(context.Background())
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestErrorDescriptionIsKept(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusForbidden, httputil.ErrorResponse{Error: "forbidden", ErrorDescription: "no active membership"})
	}, WithTokenSource(staticToken("tok")))

	_, err := c.Session(context.Background())
	assert.Contains(t, err.Error(), "no active membership")
}

func TestUnreachableBackendIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(Config{BaseURL: srv.URL}, WithTokenSource(staticToken("tok")))

	_, err := c.Session(context.Background())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func TestSlowBackendTimesOut(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTokenSource(staticToken("tok")))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Session(ctx)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

func TestCancelledContextIsReturnedAsIs(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	}, WithTokenSource(staticToken("tok")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Session(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestValidateFleetSetRoundTrip(t *testing.T) {
	vehicleID := id.VehicleID(uuid.New())
	driverID := id.DriverID(uuid.New())
	origin := id.VehicleID(uuid.New())
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fleet-sets/validate", r.URL.Path)
		var req fleetcontract.ValidateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, vehicleID, req.VehicleID)
		assert.Equal(t, driverID, *req.DriverID)
		assert.Nil(t, req.TrailerID)
		httputil.WriteJSON(w, http.StatusOK, fleetcontract.ValidationResult{
			Driver: fleetcontract.ReassignmentInfo{HasConflict: true, CurrentVehicleID: &origin, CurrentVehiclePlate: "A"},
		})
	}, WithTokenSource(staticToken("tok")))

	got, err := c.ValidateFleetSet(context.Background(), fleetcontract.ValidateRequest{VehicleID: vehicleID, DriverID: &driverID})
	require.NoError(t, err)
	assert.True(t, got.Driver.HasConflict)
	assert.Equal(t, "A", got.Driver.CurrentVehiclePlate)
}

func TestListFleetSetsActiveFilter(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		httputil.WriteJSON(w, http.StatusOK, listResponse[fleetcontract.FleetSet]{
			Items: []fleetcontract.FleetSet{{ID: id.FleetSetID(uuid.New()), Active: true}},
			Count: 1,
		})
	}, WithTokenSource(staticToken("tok")))

	got, err := c.ListFleetSets(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSignOutAcceptsNoContent(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenSource(staticToken("tok")))

	assert.NoError(t, c.SignOut(context.Background()))
}

func TestSignInIsUnauthenticated(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"access_token": "a", "refresh_token": "r", "expires_in": 900})
	})

	got, err := c.SignIn(context.Background(), "ana@polar.example", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, 900, got.ExpiresIn)
}
