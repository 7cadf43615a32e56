package handler

import (
	"net/http"

	"github.com/mcoot/rconstore/internal/api/middleware"
	"github.com/mcoot/rconstore/internal/api/request"
	"github.com/mcoot/rconstore/internal/api/response"
	"github.com/mcoot/rconstore/internal/history"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/players"
)

// AddName handles POST /api/v1/players/{steam_id}/names
func (h *PlayerHandler) AddName(w http.ResponseWriter, r *http.Request) {
	var req request.NameRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	at := timeOr(req.At, h.players.Now())
	if err := h.names.RecordObservation(r.Context(), player, req.Name, at); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ListNames handles GET /api/v1/players/{steam_id}/names
func (h *PlayerHandler) ListNames(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	names, err := h.names.List(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Names{Names: players.NewNameViews(player.SteamID64, names)})
}

// StartSession handles POST /api/v1/players/{steam_id}/sessions/start
func (h *PlayerHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req request.SessionRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := h.sessions.RecordStart(r.Context(), player, timeOr(req.At, h.sessions.Now()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionStarted{SessionID: id})
}

// EndSession handles POST /api/v1/players/{steam_id}/sessions/end
func (h *PlayerHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	var req request.SessionRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.sessions.RecordEnd(r.Context(), player, timeOr(req.At, h.sessions.Now())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ListSessions handles GET /api/v1/players/{steam_id}/sessions
func (h *PlayerHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	all, err := h.sessions.OrderedSessions(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	now := h.sessions.Now()
	page := all
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	response.JSON(w, http.StatusOK, response.Sessions{
		Sessions:               players.NewSessionViews(player.SteamID64, page),
		SessionsCount:          len(all),
		TotalPlaytimeSeconds:   history.TotalPlaytimeSeconds(all, now),
		CurrentPlaytimeSeconds: history.CurrentPlaytimeSeconds(all, now),
	})
}

// AddAction handles POST /api/v1/players/{steam_id}/actions
func (h *PlayerHandler) AddAction(w http.ResponseWriter, r *http.Request) {
	var req request.ActionRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	action, err := h.penalties.RecordAction(
		r.Context(),
		player,
		req.ActionType,
		req.Reason,
		middleware.GetOperator(r.Context()),
		timeOr(req.At, h.players.Now()),
	)
	if err != nil {
		WriteError(w, err)
		return
	}
	views := players.NewActionViews([]model.ActionRecord{*action})
	response.JSON(w, http.StatusCreated, views[0])
}

// ListActions handles GET /api/v1/players/{steam_id}/actions
func (h *PlayerHandler) ListActions(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	actions, err := h.penalties.List(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Actions{ReceivedActions: players.NewActionViews(actions)})
}

// Penalties handles GET /api/v1/players/{steam_id}/penalties
func (h *PlayerHandler) Penalties(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	counts, err := h.penalties.PenaltyCounts(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Penalties{PenaltyCount: counts})
}
