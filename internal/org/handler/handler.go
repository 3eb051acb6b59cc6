package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"coldchain/contracts/session"
	"coldchain/internal/org/models"
	"coldchain/internal/org/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

// Service defines the organization operations the HTTP layer depends on.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	ResolveSession(ctx context.Context, userID id.UserID) (*session.Session, error)
	SwitchOrganization(ctx context.Context, userID id.UserID, orgID id.OrganizationID) (*session.Session, error)
	CreateOrganization(ctx context.Context, cmd service.CreateOrganizationCommand) (*models.Organization, error)
	ListMembers(ctx context.Context, orgID id.OrganizationID, actor id.UserID) ([]*models.Membership, error)
	Invite(ctx context.Context, cmd service.InviteCommand) (*models.Membership, error)
	SuspendMember(ctx context.Context, orgID id.OrganizationID, membershipID id.MembershipID, actor id.UserID) (*models.Membership, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts organization routes. The parent router applies the auth
// middleware; membership is checked per organization by the service.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.HandleGetSession)
	r.Post("/session/organization", h.HandleSwitchOrganization)
	r.Post("/organizations", h.HandleCreateOrganization)
	r.Get("/organizations/{id}/members", h.HandleListMembers)
	r.Post("/organizations/{id}/invitations", h.HandleInvite)
	r.Post("/organizations/{id}/members/{membershipID}/suspend", h.HandleSuspendMember)
}

// HandleGetSession returns the caller's user, memberships and active
// organization.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	sess, err := h.service.ResolveSession(ctx, userID)
	if err != nil {
		h.fail(w, ctx, "resolve session failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

// HandleSwitchOrganization implements POST /session/organization.
//
// Input: { "organization_id": "..." }
// Output: the re-resolved session
func (h *Handler) HandleSwitchOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[SwitchOrganizationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sess, err := h.service.SwitchOrganization(ctx, userID, req.OrganizationID)
	if err != nil {
		h.fail(w, ctx, "switch organization failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) HandleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateOrganizationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	org, err := h.service.CreateOrganization(ctx, service.CreateOrganizationCommand{Name: req.Name, OwnerID: userID})
	if err != nil {
		h.fail(w, ctx, "create organization failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, org.ToContract())
}

func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, orgID, ok := h.organizationScope(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(ctx, orgID, userID)
	if err != nil {
		h.fail(w, ctx, "list members failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMemberList(members))
}

// HandleInvite implements POST /organizations/{id}/invitations.
//
// Input: { "email": "driver@polar.example", "role": "dispatcher" }
// Output: the pending membership
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, orgID, ok := h.organizationScope(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[InviteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	m, err := h.service.Invite(ctx, req.ToCommand(orgID, userID))
	if err != nil {
		h.fail(w, ctx, "invite failed", err)
		return
	}
	h.logger.InfoContext(ctx, "invitation created",
		"request_id", requestID,
		"organization_id", orgID.String(),
		"membership_id", m.ID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, m.ToContract())
}

func (h *Handler) HandleSuspendMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, orgID, ok := h.organizationScope(w, r)
	if !ok {
		return
	}
	membershipID, err := id.ParseMembershipID(chi.URLParam(r, "membershipID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid membership id"))
		return
	}

	m, err := h.service.SuspendMember(ctx, orgID, membershipID, userID)
	if err != nil {
		h.fail(w, ctx, "suspend member failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m.ToContract())
}

// organizationScope extracts the caller and the {id} path organization.
func (h *Handler) organizationScope(w http.ResponseWriter, r *http.Request) (id.UserID, id.OrganizationID, bool) {
	userID, err := httputil.RequireUserID(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.OrganizationID{}, false
	}
	orgID, err := id.ParseOrganizationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid organization id"))
		return id.UserID{}, id.OrganizationID{}, false
	}
	return userID, orgID, true
}

func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteError(w, err)
}
