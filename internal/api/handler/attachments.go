package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rconstore/internal/api/middleware"
	"github.com/mcoot/rconstore/internal/api/request"
	"github.com/mcoot/rconstore/internal/api/response"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/players"
)

// SetBlacklist handles PUT /api/v1/players/{steam_id}/blacklist
func (h *PlayerHandler) SetBlacklist(w http.ResponseWriter, r *http.Request) {
	var req request.BlacklistRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	operator := middleware.GetOperator(r.Context())
	if err := h.players.SetBlacklist(r.Context(), player, *req.IsBlacklisted, req.Reason, operator); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, players.BlacklistView{
		IsBlacklisted: *req.IsBlacklisted,
		Reason:        req.Reason,
		By:            operator,
	})
}

// SetWatchlist handles PUT /api/v1/players/{steam_id}/watchlist
func (h *PlayerHandler) SetWatchlist(w http.ResponseWriter, r *http.Request) {
	var req request.WatchlistRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	operator := middleware.GetOperator(r.Context())
	if err := h.players.SetWatchlist(r.Context(), player, *req.IsWatched, req.Reason, req.Comment, operator); err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, players.WatchlistView{
		IsWatched: *req.IsWatched,
		Reason:    req.Reason,
		Comment:   req.Comment,
	})
}

// SetSteamInfo handles PUT /api/v1/players/{steam_id}/steaminfo
func (h *PlayerHandler) SetSteamInfo(w http.ResponseWriter, r *http.Request) {
	var req request.SteamInfoRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	info, err := h.players.SetSteamInfo(r.Context(), player, req.Profile, req.Country, req.Bans)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, players.NewSteamInfoView(info))
}

// AddFlag handles POST /api/v1/players/{steam_id}/flags
func (h *PlayerHandler) AddFlag(w http.ResponseWriter, r *http.Request) {
	var req request.FlagRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	flag, err := h.players.AddFlag(r.Context(), player, req.Flag, req.Comment, middleware.GetOperator(r.Context()))
	if err != nil {
		WriteError(w, err)
		return
	}
	views := players.NewFlagViews([]model.PlayerFlag{*flag})
	response.JSON(w, http.StatusCreated, views[0])
}

// RemoveFlag handles DELETE /api/v1/players/{steam_id}/flags/{flag}
func (h *PlayerHandler) RemoveFlag(w http.ResponseWriter, r *http.Request) {
	player, err := h.resolve(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	if err := h.players.RemoveFlag(r.Context(), player, mux.Vars(r)["flag"], middleware.GetOperator(r.Context())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}
