package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rconstore/internal/api/middleware"
	"github.com/mcoot/rconstore/internal/api/response"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/names"
	"github.com/mcoot/rconstore/internal/services/penalties"
	"github.com/mcoot/rconstore/internal/services/players"
	"github.com/mcoot/rconstore/internal/services/sessions"
)

// PlayerHandler handles endpoints under /players/{steam_id}
type PlayerHandler struct {
	players      *players.Service
	names        *names.Service
	sessions     *sessions.Service
	penalties    *penalties.Service
	sessionLimit int
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(
	playerService *players.Service,
	nameService *names.Service,
	sessionService *sessions.Service,
	penaltyService *penalties.Service,
	sessionLimit int,
) *PlayerHandler {
	if sessionLimit <= 0 {
		sessionLimit = players.DefaultSessionLimit
	}
	return &PlayerHandler{
		players:      playerService,
		names:        nameService,
		sessions:     sessionService,
		penalties:    penaltyService,
		sessionLimit: sessionLimit,
	}
}

// resolve looks up the identity named in the path
func (h *PlayerHandler) resolve(r *http.Request) (*model.Player, error) {
	return h.players.Resolve(r.Context(), mux.Vars(r)["steam_id"])
}

// Upsert handles PUT /api/v1/players/{steam_id}
func (h *PlayerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	player, err := h.players.GetOrCreate(r.Context(), mux.Vars(r)["steam_id"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{steam_id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "sessions", h.sessionLimit)
	if err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	snapshot, err := h.players.Snapshot(r.Context(), player, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, snapshot)
}

// Delete handles DELETE /api/v1/players/{steam_id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.players.Delete(r.Context(), player, middleware.GetOperator(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
