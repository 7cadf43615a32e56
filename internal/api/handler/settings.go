package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rconstore/internal/api/response"
	"github.com/mcoot/rconstore/internal/services/settings"
)

// SettingsHandler serves the configuration registry
type SettingsHandler struct {
	settings *settings.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// List handles GET /api/v1/settings
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, all)
}

// Get handles GET /api/v1/settings/{key}
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	value, err := h.settings.Get(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.RawJSON(w, http.StatusOK, value)
}

// Put handles PUT /api/v1/settings/{key}. The body is the raw JSON value.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		WriteError(w, NewInvalidRequestError("could not read body"))
		return
	}
	key := mux.Vars(r)["key"]
	if err := h.settings.Put(r.Context(), key, json.RawMessage(body)); err != nil {
		WriteError(w, err)
		return
	}
	value, err := h.settings.Get(r.Context(), key)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.RawJSON(w, http.StatusOK, value)
}
