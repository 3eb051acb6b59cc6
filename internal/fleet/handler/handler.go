package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	fleetcontract "coldchain/contracts/fleet"
	"coldchain/contracts/session"
	"coldchain/internal/fleet/models"
	"coldchain/internal/fleet/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

// Service is the fleet surface the HTTP layer depends on.
type Service interface {
	CreateCarrier(ctx context.Context, cmd service.CreateCarrierCommand) (*models.Carrier, error)
	ListCarriers(ctx context.Context, orgID id.OrganizationID) ([]*models.Carrier, error)
	CreateDriver(ctx context.Context, cmd service.CreateDriverCommand) (*models.Driver, error)
	ListDrivers(ctx context.Context, orgID id.OrganizationID) ([]*models.Driver, error)
	CreateVehicle(ctx context.Context, cmd service.CreateVehicleCommand) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, orgID id.OrganizationID, vehicleID id.VehicleID) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, orgID id.OrganizationID) ([]*models.Vehicle, error)
	CreateTrailer(ctx context.Context, cmd service.CreateTrailerCommand) (*models.Trailer, error)
	ListTrailers(ctx context.Context, orgID id.OrganizationID) ([]*models.Trailer, error)
	CreateReefer(ctx context.Context, cmd service.CreateReeferCommand) (*models.ReeferUnit, error)
	ListReefers(ctx context.Context, orgID id.OrganizationID) ([]*models.ReeferUnit, error)
	CreateFleetSet(ctx context.Context, cmd service.FleetSetCommand) (*models.FleetSet, error)
	UpdateFleetSet(ctx context.Context, setID id.FleetSetID, cmd service.FleetSetCommand) (*models.FleetSet, error)
	EndFleetSet(ctx context.Context, orgID id.OrganizationID, setID id.FleetSetID) (*models.FleetSet, error)
	ListFleetSets(ctx context.Context, orgID id.OrganizationID, activeOnly bool) ([]*models.FleetSet, error)
}

// Validator checks a proposed fleet set for conflicts.
type Validator interface {
	Validate(ctx context.Context, q service.ValidateQuery) (*fleetcontract.ValidationResult, error)
}

type Handler struct {
	service   Service
	validator Validator
	logger    *slog.Logger
}

func New(svc Service, validator Validator, logger *slog.Logger) *Handler {
	return &Handler{service: svc, validator: validator, logger: logger}
}

// Register mounts fleet routes. Callers wrap r with authentication and
// active-membership middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/carriers", h.HandleListCarriers)
	r.Post("/carriers", h.HandleCreateCarrier)
	r.Get("/drivers", h.HandleListDrivers)
	r.Post("/drivers", h.HandleCreateDriver)
	r.Get("/vehicles", h.HandleListVehicles)
	r.Post("/vehicles", h.HandleCreateVehicle)
	r.Get("/vehicles/{id}", h.HandleGetVehicle)
	r.Get("/trailers", h.HandleListTrailers)
	r.Post("/trailers", h.HandleCreateTrailer)
	r.Get("/reefers", h.HandleListReefers)
	r.Post("/reefers", h.HandleCreateReefer)

	r.Post("/fleet-sets/validate", h.HandleValidateFleetSet)
	r.Get("/fleet-sets", h.HandleListFleetSets)
	r.Post("/fleet-sets", h.HandleCreateFleetSet)
	r.Put("/fleet-sets/{id}", h.HandleUpdateFleetSet)
	r.Post("/fleet-sets/{id}/end", h.HandleEndFleetSet)
}

func (h *Handler) HandleCreateCarrier(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateCarrierRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	carrier, err := h.service.CreateCarrier(ctx, service.CreateCarrierCommand{OrganizationID: orgID, Name: req.Name})
	if err != nil {
		h.fail(w, ctx, "create carrier failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toCarrierResponse(carrier))
}

func (h *Handler) HandleListCarriers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	carriers, err := h.service.ListCarriers(ctx, orgID)
	if err != nil {
		h.fail(w, ctx, "list carriers failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(carriers, toCarrierResponse))
}

func (h *Handler) HandleCreateDriver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateDriverRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand(orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	driver, err := h.service.CreateDriver(ctx, cmd)
	if err != nil {
		h.fail(w, ctx, "create driver failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toDriverResponse(driver))
}

func (h *Handler) HandleListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	drivers, err := h.service.ListDrivers(ctx, orgID)
	if err != nil {
		h.fail(w, ctx, "list drivers failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(drivers, toDriverResponse))
}

func (h *Handler) HandleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateVehicleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand(orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicle, err := h.service.CreateVehicle(ctx, cmd)
	if err != nil {
		h.fail(w, ctx, "create vehicle failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVehicleResponse(vehicle))
}

// HandleGetVehicle lets clients check the trailer rule before validating.
func (h *Handler) HandleGetVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	vehicleID, err := id.ParseVehicleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid vehicle id"))
		return
	}

	vehicle, err := h.service.GetVehicle(ctx, orgID, vehicleID)
	if err != nil {
		h.fail(w, ctx, "get vehicle failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVehicleResponse(vehicle))
}

func (h *Handler) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	vehicles, err := h.service.ListVehicles(ctx, orgID)
	if err != nil {
		h.fail(w, ctx, "list vehicles failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(vehicles, toVehicleResponse))
}

func (h *Handler) HandleCreateTrailer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateTrailerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand(orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	trailer, err := h.service.CreateTrailer(ctx, cmd)
	if err != nil {
		h.fail(w, ctx, "create trailer failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toTrailerResponse(trailer))
}

func (h *Handler) HandleListTrailers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	trailers, err := h.service.ListTrailers(ctx, orgID)
	if err != nil {
		h.fail(w, ctx, "list trailers failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(trailers, toTrailerResponse))
}

func (h *Handler) HandleCreateReefer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateReeferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	cmd, err := req.ToCommand(orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reefer, err := h.service.CreateReefer(ctx, cmd)
	if err != nil {
		h.fail(w, ctx, "create reefer unit failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toReeferResponse(reefer))
}

func (h *Handler) HandleListReefers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	reefers, err := h.service.ListReefers(ctx, orgID)
	if err != nil {
		h.fail(w, ctx, "list reefer units failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(reefers, toReeferResponse))
}

// HandleValidateFleetSet reports conflicts for a proposed set without
// changing anything.
func (h *Handler) HandleValidateFleetSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ValidateFleetSetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.validator.Validate(ctx, req.ToQuery(orgID))
	if err != nil {
		h.fail(w, ctx, "validate fleet set failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleCreateFleetSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[FleetSetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	set, err := h.service.CreateFleetSet(ctx, req.ToCommand(orgID))
	if err != nil {
		h.fail(w, ctx, "create fleet set failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toFleetSetResponse(set))
}

func (h *Handler) HandleUpdateFleetSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	setID, err := id.ParseFleetSetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid fleet set id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[FleetSetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	set, err := h.service.UpdateFleetSet(ctx, setID, req.ToCommand(orgID))
	if err != nil {
		h.fail(w, ctx, "update fleet set failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFleetSetResponse(set))
}

func (h *Handler) HandleEndFleetSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.dispatchScope(w, ctx)
	if !ok {
		return
	}
	setID, err := id.ParseFleetSetID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid fleet set id"))
		return
	}

	set, err := h.service.EndFleetSet(ctx, orgID, setID)
	if err != nil {
		h.fail(w, ctx, "end fleet set failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFleetSetResponse(set))
}

// HandleListFleetSets lists sets; ?active=true restricts to active ones.
func (h *Handler) HandleListFleetSets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return
	}
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "active must be a boolean"))
			return
		}
		activeOnly = v
	}

	sets, err := h.service.ListFleetSets(ctx, orgID, activeOnly)
	if err != nil {
		h.fail(w, ctx, "list fleet sets failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toList(sets, toFleetSetResponse))
}

func (h *Handler) readScope(w http.ResponseWriter, ctx context.Context) (id.OrganizationID, bool) {
	orgID, err := httputil.RequireOrganizationID(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return id.OrganizationID{}, false
	}
	return orgID, true
}

// dispatchScope additionally requires a role allowed to change the fleet.
func (h *Handler) dispatchScope(w http.ResponseWriter, ctx context.Context) (id.OrganizationID, bool) {
	orgID, ok := h.readScope(w, ctx)
	if !ok {
		return orgID, false
	}
	if !session.Role(requestcontext.Role(ctx)).CanDispatch() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "your role cannot change fleet data"))
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
