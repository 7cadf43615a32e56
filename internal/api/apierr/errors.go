package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/rconstore/internal/api/request"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeInvalidSteamID      = "INVALID_STEAM_ID"
	CodeNoOpenSession       = "NO_OPEN_SESSION"
	CodeSessionOutOfOrder   = "SESSION_OUT_OF_ORDER"
	CodeInvalidActionType   = "INVALID_ACTION_TYPE"
	CodeFlagNotFound        = "FLAG_NOT_FOUND"
	CodeNoOpenMap           = "NO_OPEN_MAP"
	CodeDuplicateLogLine    = "DUPLICATE_LOG_LINE"
	CodeUnknownSetting      = "UNKNOWN_SETTING"
	CodeInvalidSettingValue = "INVALID_SETTING_VALUE"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}
	var ve *request.ValidationError
	if errors.As(err, &ve) {
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, ve.Error()}}
	}

	// Map model errors
	switch {
	case errors.Is(err, request.ErrInvalidBody):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrUnknownIdentity):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidSteamID):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSteamID, "Invalid steam id"}}
	case errors.Is(err, model.ErrInvalidName), errors.Is(err, model.ErrInvalidFlag), errors.Is(err, model.ErrInvalidMapName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, err.Error()}}
	case errors.Is(err, model.ErrNoOpenSession):
		return &httpError{http.StatusConflict, APIError{CodeNoOpenSession, "No open session to end"}}
	case errors.Is(err, model.ErrSessionOutOfOrder):
		return &httpError{http.StatusConflict, APIError{CodeSessionOutOfOrder, "Session time is earlier than the newest session"}}
	case errors.Is(err, model.ErrInvalidActionType):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidActionType, "Invalid action type"}}
	case errors.Is(err, model.ErrFlagNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeFlagNotFound, "Flag not found"}}
	case errors.Is(err, model.ErrNoOpenMap):
		return &httpError{http.StatusConflict, APIError{CodeNoOpenMap, "No map in progress on server"}}
	case errors.Is(err, model.ErrDuplicateLogLine):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateLogLine, "Log line already recorded"}}
	case errors.Is(err, model.ErrUnknownSetting):
		return &httpError{http.StatusNotFound, APIError{CodeUnknownSetting, err.Error()}}
	case errors.Is(err, model.ErrInvalidSettingValue):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSettingValue, err.Error()}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewNotFoundError creates a not found error for unmatched routes
func NewNotFoundError() error {
	return &httpError{http.StatusNotFound, APIError{CodeNotFound, "Not found"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
