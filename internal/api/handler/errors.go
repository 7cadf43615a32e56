package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/rconstore/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, NewInvalidRequestError(name + " must be a non-negative integer")
	}
	return v, nil
}

// queryTime reads an optional RFC 3339 query parameter
func queryTime(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, NewInvalidRequestError(name + " must be an RFC 3339 timestamp")
	}
	return t, nil
}

// timeOr returns *at, or now when the request left it out
func timeOr(at *time.Time, now time.Time) time.Time {
	if at == nil {
		return now
	}
	return *at
}
