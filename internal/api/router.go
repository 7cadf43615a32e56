package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rconstore/internal/api/apierr"
	"github.com/mcoot/rconstore/internal/api/handler"
	"github.com/mcoot/rconstore/internal/api/middleware"
	"github.com/mcoot/rconstore/internal/api/sse"
	"github.com/mcoot/rconstore/internal/dependencies/clock"
	sharedmw "github.com/mcoot/rconstore/internal/middleware"
	"github.com/mcoot/rconstore/internal/services/audit"
	"github.com/mcoot/rconstore/internal/services/auth"
	"github.com/mcoot/rconstore/internal/services/logs"
	"github.com/mcoot/rconstore/internal/services/maps"
	"github.com/mcoot/rconstore/internal/services/names"
	"github.com/mcoot/rconstore/internal/services/penalties"
	"github.com/mcoot/rconstore/internal/services/players"
	"github.com/mcoot/rconstore/internal/services/sessions"
	"github.com/mcoot/rconstore/internal/services/settings"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Clock           clock.Clock
	AuthService     *auth.Service
	PlayerService   *players.Service
	NameService     *names.Service
	SessionService  *sessions.Service
	PenaltyService  *penalties.Service
	AuditService    *audit.Service
	MapService      *maps.Service
	LogService      *logs.Service
	SettingsService *settings.Service
	Hub             *sse.Hub
	SessionLimit    int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playerHandler := handler.NewPlayerHandler(cfg.PlayerService, cfg.NameService, cfg.SessionService, cfg.PenaltyService, cfg.SessionLimit)
	recordsHandler := handler.NewRecordsHandler(cfg.AuditService, cfg.MapService, cfg.LogService, cfg.Clock)
	settingsHandler := handler.NewSettingsHandler(cfg.SettingsService)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	auditMiddleware := middleware.Audit(cfg.AuditService, cfg.Logger)
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.RequestID)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)

	// Everything else needs an operator token; mutations are audited
	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware)
	protected.Use(auditMiddleware)

	// Player routes
	p := protected.PathPrefix("/players/{steam_id}").Subrouter()
	p.HandleFunc("", playerHandler.Upsert).Methods(http.MethodPut)
	p.HandleFunc("", playerHandler.Get).Methods(http.MethodGet)
	p.HandleFunc("", playerHandler.Delete).Methods(http.MethodDelete)
	p.HandleFunc("/names", playerHandler.AddName).Methods(http.MethodPost)
	p.HandleFunc("/names", playerHandler.ListNames).Methods(http.MethodGet)
	p.HandleFunc("/sessions/start", playerHandler.StartSession).Methods(http.MethodPost)
	p.HandleFunc("/sessions/end", playerHandler.EndSession).Methods(http.MethodPost)
	p.HandleFunc("/sessions", playerHandler.ListSessions).Methods(http.MethodGet)
	p.HandleFunc("/actions", playerHandler.AddAction).Methods(http.MethodPost)
	p.HandleFunc("/actions", playerHandler.ListActions).Methods(http.MethodGet)
	p.HandleFunc("/penalties", playerHandler.Penalties).Methods(http.MethodGet)
	p.HandleFunc("/blacklist", playerHandler.SetBlacklist).Methods(http.MethodPut)
	p.HandleFunc("/watchlist", playerHandler.SetWatchlist).Methods(http.MethodPut)
	p.HandleFunc("/steaminfo", playerHandler.SetSteamInfo).Methods(http.MethodPut)
	p.HandleFunc("/flags", playerHandler.AddFlag).Methods(http.MethodPost)
	p.HandleFunc("/flags/{flag}", playerHandler.RemoveFlag).Methods(http.MethodDelete)

	// Server records
	protected.HandleFunc("/audit", recordsHandler.ListAudit).Methods(http.MethodGet)
	protected.HandleFunc("/maps/start", recordsHandler.StartMap).Methods(http.MethodPost)
	protected.HandleFunc("/maps/end", recordsHandler.EndMap).Methods(http.MethodPost)
	protected.HandleFunc("/maps", recordsHandler.ListMaps).Methods(http.MethodGet)
	protected.HandleFunc("/logs", recordsHandler.IngestLog).Methods(http.MethodPost)
	protected.HandleFunc("/logs", recordsHandler.QueryLogs).Methods(http.MethodGet)

	// Settings
	protected.HandleFunc("/settings", settingsHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/settings/{key}", settingsHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/settings/{key}", settingsHandler.Put).Methods(http.MethodPut)

	// Live events
	protected.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
