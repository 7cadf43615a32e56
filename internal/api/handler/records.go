package handler

import (
	"net/http"

	"github.com/mcoot/rconstore/internal/api/request"
	"github.com/mcoot/rconstore/internal/api/response"
	"github.com/mcoot/rconstore/internal/dependencies/clock"
	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/audit"
	"github.com/mcoot/rconstore/internal/services/logs"
	"github.com/mcoot/rconstore/internal/services/maps"
)

// RecordsHandler serves the server-wide records: audit trail, map rotation and game logs
type RecordsHandler struct {
	audit *audit.Service
	maps  *maps.Service
	logs  *logs.Service
	clock clock.Clock
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(auditService *audit.Service, mapService *maps.Service, logService *logs.Service, clock clock.Clock) *RecordsHandler {
	return &RecordsHandler{
		audit: auditService,
		maps:  mapService,
		logs:  logService,
		clock: clock,
	}
}

// ListAudit handles GET /api/v1/audit?username=&limit=
func (h *RecordsHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		WriteError(w, err)
		return
	}
	entries, err := h.audit.List(r.Context(), model.AuditFilter{
		Username: r.URL.Query().Get("username"),
		Limit:    limit,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AuditEntriesFromModel(entries))
}

// StartMap handles POST /api/v1/maps/start
func (h *RecordsHandler) StartMap(w http.ResponseWriter, r *http.Request) {
	var req request.MapStartRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	rec, err := h.maps.Start(r.Context(), req.Server, req.MapName, timeOr(req.At, h.clock.Now()))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.MapFromModel(rec))
}

// EndMap handles POST /api/v1/maps/end
func (h *RecordsHandler) EndMap(w http.ResponseWriter, r *http.Request) {
	var req request.MapEndRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if err := h.maps.End(r.Context(), req.Server, timeOr(req.At, h.clock.Now())); err != nil {
		WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// ListMaps handles GET /api/v1/maps?server=&limit=
func (h *RecordsHandler) ListMaps(w http.ResponseWriter, r *http.Request) {
	server := -1
	if r.URL.Query().Has("server") {
		s, err := queryInt(r, "server", 0)
		if err != nil {
			WriteError(w, err)
			return
		}
		server = s
	}
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		WriteError(w, err)
		return
	}
	records, err := h.maps.List(r.Context(), server, limit)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.MapsFromModel(records))
}

// IngestLog handles POST /api/v1/logs
func (h *RecordsHandler) IngestLog(w http.ResponseWriter, r *http.Request) {
	var req request.LogLineRequest
	if err := request.Decode(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}
	line, err := h.logs.Ingest(r.Context(), logs.Entry{
		Version:        req.Version,
		EventTime:      req.EventTime,
		Type:           req.Type,
		Player1Name:    req.Player1Name,
		Player1SteamID: req.Player1SteamID,
		Player2Name:    req.Player2Name,
		Player2SteamID: req.Player2SteamID,
		Raw:            req.Raw,
		Content:        req.Content,
		Server:         req.Server,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.LogLineStored{
		ID:        line.ID,
		Player1ID: line.Player1ID,
		Player2ID: line.Player2ID,
	})
}

// QueryLogs handles GET /api/v1/logs?steam_id=&type=&server=&since=&limit=
func (h *RecordsHandler) QueryLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		WriteError(w, err)
		return
	}
	since, err := queryTime(r, "since")
	if err != nil {
		WriteError(w, err)
		return
	}
	q := r.URL.Query()
	lines, err := h.logs.Query(r.Context(), logs.Query{
		SteamID: q.Get("steam_id"),
		Type:    q.Get("type"),
		Server:  q.Get("server"),
		Since:   since,
		Limit:   limit,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, lines)
}
