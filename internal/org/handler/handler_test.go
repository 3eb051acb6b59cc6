package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service

import (
	"bytes"
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

	"coldchain/contracts/session"
	"coldchain/internal/org/handler/mocks"
	"coldchain/internal/org/models"
	"coldchain/internal/org/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

type HandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	userID  id.UserID
	orgID   id.OrganizationID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.userID = id.UserID(uuid.New())
	s.orgID = id.OrganizationID(uuid.New())

	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if !s.userID.IsNil() {
				ctx = requestcontext.WithUserID(ctx, s.userID)
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

func (s *HandlerSuite) sessionFor(role session.Role) *session.Session {
	m := session.Membership{ID: id.MembershipID(uuid.New()), OrganizationID: s.orgID, UserID: &s.userID, Role: role, Status: session.MembershipActive}
	return &session.Session{
		User:               session.User{ID: s.userID, Email: "ana@polar.example"},
		ActiveOrganization: &session.Organization{ID: s.orgID, Name: "Polar Freight", Status: "active"},
		Membership:         &m,
		Memberships:        []session.Membership{m},
	}
}

func (s *HandlerSuite) TestGetSession() {
	s.service.EXPECT().ResolveSession(gomock.Any(), s.userID).Return(s.sessionFor(session.RoleDispatcher), nil)

	w := s.do(http.MethodGet, "/session", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body session.Session
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(s.orgID, body.ActiveOrganization.ID)
	s.Equal(session.RoleDispatcher, body.Membership.Role)
}

func (s *HandlerSuite) TestGetSessionWithoutMembershipIsForbidden() {
	s.service.EXPECT().ResolveSession(gomock.Any(), s.userID).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "no active organization membership"))

	w := s.do(http.MethodGet, "/session", nil)

	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerSuite) TestGetSessionRequiresUser() {
	s.userID = id.UserID{}

	w := s.do(http.MethodGet, "/session", nil)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerSuite) TestSwitchOrganization() {
	target := id.OrganizationID(uuid.New())
	s.service.EXPECT().SwitchOrganization(gomock.Any(), s.userID, target).Return(s.sessionFor(session.RoleViewer), nil)

	w := s.do(http.MethodPost, "/session/organization", session.SwitchOrganizationRequest{OrganizationID: target})

	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerSuite) TestSwitchOrganizationRequiresID() {
	w := s.do(http.MethodPost, "/session/organization", map[string]string{})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("validation_error", s.errorCode(w))
}

func (s *HandlerSuite) TestCreateOrganization() {
	now := time.Now()
	s.service.EXPECT().CreateOrganization(gomock.Any(), service.CreateOrganizationCommand{Name: "Polar Freight", OwnerID: s.userID}).
		Return(&models.Organization{ID: s.orgID, Name: "Polar Freight", Status: models.OrganizationActive, CreatedAt: now, UpdatedAt: now}, nil)

	w := s.do(http.MethodPost, "/organizations", map[string]string{"name": " Polar Freight "})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body session.Organization
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(s.orgID, body.ID)
	s.Equal("active", body.Status)
}

func (s *HandlerSuite) TestInvite() {
	s.service.EXPECT().Invite(gomock.Any(), service.InviteCommand{
		OrganizationID: s.orgID,
		Email:          "driver@polar.example",
		Role:           session.RoleDispatcher,
		InvitedBy:      s.userID,
	}).Return(&models.Membership{
		ID:             id.MembershipID(uuid.New()),
		OrganizationID: s.orgID,
		Email:          "driver@polar.example",
		Role:           session.RoleDispatcher,
		Status:         session.MembershipInvited,
	}, nil)

	w := s.do(http.MethodPost, "/organizations/"+s.orgID.String()+"/invitations", map[string]string{
		"email": "Driver@Polar.example",
		"role":  "dispatcher",
	})

	s.Require().Equal(http.StatusCreated, w.Code)
	var body session.Membership
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(session.MembershipInvited, body.Status)
	s.Nil(body.UserID)
}

func (s *HandlerSuite) TestInviteDuplicateIsConflict() {
	s.service.EXPECT().Invite(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "an invitation is already pending for this email"))

	w := s.do(http.MethodPost, "/organizations/"+s.orgID.String()+"/invitations", map[string]string{"email": "driver@polar.example"})

	s.Equal(http.StatusConflict, w.Code)
	s.Equal("conflict", s.errorCode(w))
}

func (s *HandlerSuite) TestInviteRejectsBadOrganizationID() {
	w := s.do(http.MethodPost, "/organizations/nope/invitations", map[string]string{"email": "driver@polar.example"})

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerSuite) TestListMembers() {
	userID := s.userID
	s.service.EXPECT().ListMembers(gomock.Any(), s.orgID, s.userID).Return([]*models.Membership{
		{ID: id.MembershipID(uuid.New()), OrganizationID: s.orgID, UserID: &userID, Role: session.RoleOwner, Status: session.MembershipActive},
		{ID: id.MembershipID(uuid.New()), OrganizationID: s.orgID, Email: "new@polar.example", Role: session.RoleViewer, Status: session.MembershipInvited},
	}, nil)

	w := s.do(http.MethodGet, "/organizations/"+s.orgID.String()+"/members", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body MemberListResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(2, body.Count)
}

func (s *HandlerSuite) TestSuspendMember() {
	membershipID := id.MembershipID(uuid.New())
	now := time.Now()
	s.service.EXPECT().SuspendMember(gomock.Any(), s.orgID, membershipID, s.userID).Return(&models.Membership{
		ID: membershipID, OrganizationID: s.orgID, Role: session.RoleDispatcher,
		Status: session.MembershipSuspended, SuspendedAt: &now,
	}, nil)

	w := s.do(http.MethodPost, "/organizations/"+s.orgID.String()+"/members/"+membershipID.String()+"/suspend", nil)

	s.Require().Equal(http.StatusOK, w.Code)
	var body session.Membership
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	s.Equal(session.MembershipSuspended, body.Status)
}

func (s *HandlerSuite) TestSuspendMemberForbidden() {
	s.service.EXPECT().SuspendMember(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeForbidden, "only owners and admins can manage members"))

	w := s.do(http.MethodPost, "/organizations/"+s.orgID.String()+"/members/"+uuid.NewString()+"/suspend", nil)

	s.Equal(http.StatusForbidden, w.Code)
}
