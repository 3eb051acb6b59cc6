package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	authcontract "coldchain/contracts/auth"
	"coldchain/contracts/session"
	"coldchain/internal/auth/models"
	"coldchain/internal/auth/service"
	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/platform/httputil"
	"coldchain/pkg/requestcontext"
)

// Service defines the authentication operations the HTTP layer depends on.
type Service interface {
	SignUp(ctx context.Context, cmd service.SignUpCommand) (*models.TokenResult, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResult, error)
	SignOut(ctx context.Context, userID id.UserID, sessionID id.SessionID) error
	GetUser(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID id.UserID, change models.ProfileChange) (*models.User, error)
}

type Handler struct {
	auth   Service
	logger *slog.Logger
}

func New(auth Service, logger *slog.Logger) *Handler {
	return &Handler{auth: auth, logger: logger}
}

// Register mounts the unauthenticated token endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.HandleSignUp)
	r.Post("/auth/token", h.HandleToken)
	r.Post("/auth/refresh", h.HandleRefresh)
}

// RegisterProtected mounts endpoints that need an authenticated caller.
// The parent router applies the auth middleware.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/me", h.HandleGetMe)
	r.Patch("/me", h.HandleUpdateMe)
}

// HandleSignUp implements POST /auth/signup.
//
// Input: { "email": "ana@polar.example", "password": "...", "first_name": "Ana" }
// Output: TokenResponse
func (h *Handler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SignUpRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.auth.SignUp(ctx, req.ToCommand())
	if err != nil {
		h.fail(w, ctx, "sign up failed", err)
		return
	}
	h.logger.InfoContext(ctx, "user signed up",
		"request_id", requestID,
		"user_id", result.UserID.String(),
	)
	httputil.WriteJSON(w, http.StatusCreated, toTokenResponse(result))
}

// HandleToken implements POST /auth/token (password grant).
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[TokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(w, ctx, "sign in failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(result))
}

// HandleRefresh implements POST /auth/refresh. The response carries a new
// refresh token; the presented one stops working.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[RefreshRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.fail(w, ctx, "token refresh failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toTokenResponse(result))
}

// HandleLogout implements POST /auth/logout for the session of the presented
// access token.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.auth.SignOut(ctx, userID, requestcontext.SessionID(ctx)); err != nil {
		h.fail(w, ctx, "sign out failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	user, err := h.auth.GetUser(ctx, userID)
	if err != nil {
		h.fail(w, ctx, "get user failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdateMe implements PATCH /me. Omitted fields are left unchanged.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := h.auth.UpdateProfile(ctx, userID, req.ToChange())
	if err != nil {
		h.fail(w, ctx, "update profile failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	} else {
		h.logger.WarnContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
	}
	httputil.WriteError(w, err)
}

func toTokenResponse(r *models.TokenResult) authcontract.TokenResponse {
	return authcontract.TokenResponse{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(r.ExpiresIn.Seconds()),
		UserID:       r.UserID,
	}
}

func toUserResponse(u *models.User) session.User {
	return session.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
