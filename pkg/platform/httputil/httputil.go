package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "coldchain/pkg/domain"
	dErrors "coldchain/pkg/domain-errors"
	"coldchain/pkg/requestcontext"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // status already sent
}

// WriteError writes err as an ErrorResponse. Uncoded errors become a bare
// internal_error so their text never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: DomainCodeToHTTPCode(dErrors.CodeInternal)})
		return
	}
	WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), ErrorResponse{
		Error:            DomainCodeToHTTPCode(domainErr.Code),
		ErrorDescription: domainErr.Message,
	})
}

type wireCode struct {
	status int
	name   string
}

var wireCodes = map[dErrors.Code]wireCode{
	dErrors.CodeNotFound:           {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:         {http.StatusBadRequest, "bad_request"},
	dErrors.CodeInvalidInput:       {http.StatusBadRequest, "bad_request"},
	dErrors.CodeValidation:         {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvariantViolation: {http.StatusBadRequest, "validation_error"},
	dErrors.CodeConflict:           {http.StatusConflict, "conflict"},
	dErrors.CodeUnauthorized:       {http.StatusUnauthorized, "unauthorized"},
	dErrors.CodeForbidden:          {http.StatusForbidden, "forbidden"},
	dErrors.CodeTimeout:            {http.StatusGatewayTimeout, "timeout"},
	dErrors.CodeUnavailable:        {http.StatusServiceUnavailable, "unavailable"},
	dErrors.CodeRateLimited:        {http.StatusTooManyRequests, "rate_limited"},
	dErrors.CodeInternal:           {http.StatusInternalServerError, "internal_error"},
}

// byName is the client-side inverse of wireCodes. Names shared by several
// codes resolve to the most general one.
var byName = map[string]dErrors.Code{
	"not_found":        dErrors.CodeNotFound,
	"bad_request":      dErrors.CodeBadRequest,
	"validation_error": dErrors.CodeValidation,
	"conflict":         dErrors.CodeConflict,
	"unauthorized":     dErrors.CodeUnauthorized,
	"forbidden":        dErrors.CodeForbidden,
	"timeout":          dErrors.CodeTimeout,
	"unavailable":      dErrors.CodeUnavailable,
	"rate_limited":     dErrors.CodeRateLimited,
}

func lookup(code dErrors.Code) wireCode {
	if wc, ok := wireCodes[code]; ok {
		return wc
	}
	return wireCodes[dErrors.CodeInternal]
}

// DomainCodeToHTTPStatus is the response status for code.
func DomainCodeToHTTPStatus(code dErrors.Code) int { return lookup(code).status }

// DomainCodeToHTTPCode is the "error" field for code.
func DomainCodeToHTTPCode(code dErrors.Code) string { return lookup(code).name }

// HTTPCodeToDomainCode recovers the domain code from an error response. The
// "error" field wins; the status is the fallback for proxies and other
// responses that did not come from WriteError.
func HTTPCodeToDomainCode(status int, name string) dErrors.Code {
	if code, ok := byName[name]; ok {
		return code
	}
	switch status {
	case http.StatusUnauthorized:
		return dErrors.CodeUnauthorized
	case http.StatusForbidden:
		return dErrors.CodeForbidden
	case http.StatusNotFound:
		return dErrors.CodeNotFound
	case http.StatusConflict:
		return dErrors.CodeConflict
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return dErrors.CodeTimeout
	case http.StatusTooManyRequests:
		return dErrors.CodeRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return dErrors.CodeUnavailable
	}
	if status >= 400 && status < 500 {
		return dErrors.CodeBadRequest
	}
	return dErrors.CodeInternal
}

// RequireUserID returns the caller set by RequireAuth. A missing user means
// a route was mounted outside the auth group, so it is logged loudly.
func RequireUserID(ctx context.Context, logger *slog.Logger) (id.UserID, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		if logger != nil {
			logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
				"request_id", requestcontext.RequestID(ctx))
		}
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return userID, nil
}

// RequireOrganizationID returns the caller's active organization.
func RequireOrganizationID(ctx context.Context) (id.OrganizationID, error) {
	orgID := requestcontext.OrganizationID(ctx)
	if orgID.IsNil() {
		return id.OrganizationID{}, dErrors.New(dErrors.CodeForbidden, "an active organization is required")
	}
	return orgID, nil
}
