package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"coldchain/contracts/session"
	"coldchain/internal/telematics/models"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

// Service is the telematics surface exposed over HTTP.
type Service interface {
	SearchProtocols(ctx context.Context, q string) ([]models.Protocol, error)
	DeviceTypes(ctx context.Context, protocolID int64) ([]models.DeviceType, error)
	SyncCatalog(ctx context.Context) (*models.SyncReport, error)
	ProvisionDevice(ctx context.Context, cmd models.ProvisionCommand) (*models.Provisioned, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts telematics routes. The parent router resolves the caller's
// membership before these run.
func (h *Handler) Register(r chi.Router) {
	r.Get("/telematics/protocols", h.HandleSearchProtocols)
	r.Get("/telematics/device-types", h.HandleListDeviceTypes)
	r.Post("/telematics/catalog/sync", h.HandleSyncCatalog)
	r.Post("/telematics/devices", h.HandleProvisionDevice)
}

// HandleSearchProtocols implements GET /telematics/protocols?q=.
func (h *Handler) HandleSearchProtocols(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.scope(w, ctx, nil); !ok {
		return
	}
	protocols, err := h.service.SearchProtocols(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, ctx, "search protocols failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse[models.Protocol]{Items: protocols, Count: len(protocols)})
}

// HandleListDeviceTypes implements GET /telematics/device-types?protocol_id=.
func (h *Handler) HandleListDeviceTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.scope(w, ctx, nil); !ok {
		return
	}
	protocolID, err := strconv.ParseInt(r.URL.Query().Get("protocol_id"), 10, 64)
	if err != nil || protocolID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "protocol_id must be a positive integer"))
		return
	}
	types, err := h.service.DeviceTypes(ctx, protocolID)
	if err != nil {
		h.fail(w, ctx, "list device types failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse[models.DeviceType]{Items: types, Count: len(types)})
}

// HandleSyncCatalog implements POST /telematics/catalog/sync. Only
// organization managers may trigger it since it fans out to the vendor.
func (h *Handler) HandleSyncCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.scope(w, ctx, session.Role.CanManageMembers); !ok {
		return
	}
	report, err := h.service.SyncCatalog(ctx)
	if err != nil {
		h.fail(w, ctx, "catalog sync failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleProvisionDevice implements POST /telematics/devices.
//
// Input: { "reefer_id": "...", "ident": "...", "device_type_id": 10, "name": "..." }
// Output: the reefer ID and the vendor device
func (h *Handler) HandleProvisionDevice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.scope(w, ctx, session.Role.CanDispatch)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProvisionDeviceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand(orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out, err := h.service.ProvisionDevice(ctx, cmd)
	if err != nil {
		h.fail(w, ctx, "provision device failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ProvisionResponse{ReeferID: out.ReeferID.String(), Device: out.Device})
}

// scope resolves the caller's organization and, when allowed is set,
// checks the caller's role against it.
func (h *Handler) scope(w http.ResponseWriter, ctx context.Context, allowed func(session.Role) bool) (id.OrganizationID, bool) {
	orgID, err := httputil.RequireOrganizationID(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return id.OrganizationID{}, false
	}
	if allowed != nil && !allowed(session.Role(requestcontext.Role(ctx))) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "your role cannot perform this action"))
		return id.OrganizationID{}, false
	}
	return orgID, true
}

func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteError(w, err)
}
