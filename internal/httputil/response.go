package httputil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"spotlapse/internal/logging"
	"spotlapse/internal/model"
	"spotlapse/internal/validation"
)

// Generic error codes. Domain-specific codes live in model.
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message. Fields is only set for
// request validation failures.
type ErrorDetail struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent.
			logging.Warn().Err(err).Msg("Failed to encode response body")
		}
	}
}

// DecodeJSON reads a JSON request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", model.ErrValidation, err)
	}
	return nil
}

// WriteError writes {"error": {"code": "ERROR_CODE", "message": "Human readable message"}}.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// WriteUnauthorizedWithCode writes a 401 Unauthorized error with a custom code
func WriteUnauthorizedWithCode(w http.ResponseWriter, code string, message string) {
	WriteError(w, http.StatusUnauthorized, code, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// WriteServiceError maps a service error to a status by its kind:
//
//	ErrUnauthenticated -> 401
//	ErrValidation      -> 400
//	ErrNotFound        -> 404
//	ErrConflict        -> 409
//	ErrUpstream        -> 502
//
// Anything else is logged and reported as 500 without leaking the cause.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *validation.RequestValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: ErrorDetail{
				Code:    model.CodeValidation,
				Message: ve.Error(),
				Fields:  ve.Fields,
			},
		})
		return
	}

	status, code := statusFor(err)
	message := err.Error()

	switch status {
	case http.StatusInternalServerError:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		message = "Internal server error"
	case http.StatusBadGateway:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Upstream failure")
		message = "A backing service failed, please retry"
		var ce *model.CaptureCreationError
		if errors.As(err, &ce) {
			message = "Capture creation failed at " + ce.Step
		}
	}

	WriteError(w, status, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrCodeUnauthorized
	case errors.Is(err, model.ErrFileTooLarge):
		return http.StatusBadRequest, model.CodeFileTooLarge
	case errors.Is(err, model.ErrMissingMedia):
		return http.StatusBadRequest, model.CodeMissingMedia
	case errors.Is(err, model.ErrSelfFollowRejected):
		return http.StatusBadRequest, model.CodeSelfFollow
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, model.CodeValidation
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	case errors.Is(err, model.ErrSpotOwnership):
		return http.StatusConflict, model.CodeSpotOwnership
	case errors.Is(err, model.ErrConflict):
		return http.StatusConflict, ErrCodeConflict
	case errors.Is(err, model.ErrUpstream):
		return http.StatusBadGateway, model.CodeUpstream
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}
