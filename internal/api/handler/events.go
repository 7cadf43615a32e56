package handler

import (
	"net/http"

	"github.com/mcoot/rconstore/internal/api/sse"
	"github.com/mcoot/rconstore/internal/model"
)

// EventsHandler streams player events over SSE
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/v1/events?steam_id=
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	steamID := r.URL.Query().Get("steam_id")
	if steamID != "" {
		normalized, err := model.NormalizeSteamID(steamID)
		if err != nil {
			WriteError(w, err)
			return
		}
		steamID = normalized
	}
	sse.ServeSSE(w, r, h.hub, steamID)
}
