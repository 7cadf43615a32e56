package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

// PlayerStore manages canonical player identities
type PlayerStore interface {
	// GetOrCreatePlayer returns the identity for steamID, creating it at the given time if needed
	GetOrCreatePlayer(ctx context.Context, steamID string, at time.Time) (*model.Player, error)
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerBySteamID(ctx context.Context, steamID string) (*model.Player, error)
	// DeletePlayer removes the identity and every row it owns
	DeletePlayer(ctx context.Context, id model.PlayerID) error
	// GetPlayerHistory reads every row owned by the identity in one consistent read
	GetPlayerHistory(ctx context.Context, id model.PlayerID) (*model.PlayerHistory, error)
}

// NameStore manages display name observations
type NameStore interface {
	// UpsertName inserts the name or moves its last-seen time forward, never backward
	UpsertName(ctx context.Context, id model.PlayerID, name string, observedAt time.Time) error
	// ListNames returns names most recently seen first, missing last-seen last
	ListNames(ctx context.Context, id model.PlayerID) ([]model.NameRecord, error)
}

// SessionStore manages connection sessions
type SessionStore interface {
	// StartSession inserts an open session. A still-open newest session is
	// closed at the same instant first so only the newest can be open.
	StartSession(ctx context.Context, id model.PlayerID, at time.Time) (model.SessionID, error)
	// EndSession closes the newest session, failing with model.ErrNoOpenSession
	// if there is none or it is already closed
	EndSession(ctx context.Context, id model.PlayerID, at time.Time) error
	// ListSessions returns up to limit sessions newest first (limit <= 0 for all)
	// along with the total number of sessions
	ListSessions(ctx context.Context, id model.PlayerID, limit int) ([]model.SessionRecord, int, error)
}

// ActionStore manages moderation actions
type ActionStore interface {
	InsertAction(ctx context.Context, action *model.ActionRecord) error
	// ListActions returns actions newest first
	ListActions(ctx context.Context, id model.PlayerID) ([]model.ActionRecord, error)
}

// AttachmentStore manages the optional one-to-one records and flags of an identity.
// Get methods return nil, nil when the record does not exist.
type AttachmentStore interface {
	GetBlacklist(ctx context.Context, id model.PlayerID) (*model.Blacklist, error)
	PutBlacklist(ctx context.Context, b *model.Blacklist) error
	GetWatchlist(ctx context.Context, id model.PlayerID) (*model.Watchlist, error)
	PutWatchlist(ctx context.Context, w *model.Watchlist) error
	GetSteamInfo(ctx context.Context, id model.PlayerID) (*model.SteamInfo, error)
	// PutSteamInfo replaces the cached profile. CreatedAt is kept from the first
	// write; later writes set the update time from UpdatedAt (or CreatedAt if nil).
	PutSteamInfo(ctx context.Context, info *model.SteamInfo) error

	PutFlag(ctx context.Context, flag *model.PlayerFlag) error
	DeleteFlag(ctx context.Context, id model.PlayerID, flag string) error
	ListFlags(ctx context.Context, id model.PlayerID) ([]model.PlayerFlag, error)
}

// AuditStore manages the administrative command trail
type AuditStore interface {
	InsertAuditEntry(ctx context.Context, entry *model.AuditEntry) error
	// ListAuditEntries returns entries newest first
	ListAuditEntries(ctx context.Context, filter model.AuditFilter) ([]model.AuditEntry, error)
}

// MapStore manages map rotation history
type MapStore interface {
	// StartMap records a new map on the server, ending any map still running there
	StartMap(ctx context.Context, server int, mapName string, at time.Time) (*model.MapRecord, error)
	// EndMap ends the running map on the server or fails with model.ErrNoOpenMap
	EndMap(ctx context.Context, server int, at time.Time) error
	// ListMaps returns maps newest first; server < 0 matches all servers
	ListMaps(ctx context.Context, server int, limit int) ([]model.MapRecord, error)
}

// LogLineStore manages parsed game log lines
type LogLineStore interface {
	// InsertLogLine fails with model.ErrDuplicateLogLine for a repeated (event time, raw) pair
	InsertLogLine(ctx context.Context, line *model.LogLine) error
	// ListLogLines returns lines newest event first
	ListLogLines(ctx context.Context, filter model.LogLineFilter) ([]model.LogLine, error)
}

// ConfigStore holds raw JSON configuration values by key.
// GetConfig returns nil, nil for a missing key.
type ConfigStore interface {
	GetConfig(ctx context.Context, key string) (json.RawMessage, error)
	PutConfig(ctx context.Context, key string, value json.RawMessage) error
	ListConfig(ctx context.Context) (map[string]json.RawMessage, error)
}

// Storage defines the interface for data persistence
type Storage interface {
	PlayerStore
	NameStore
	SessionStore
	ActionStore
	AttachmentStore
	AuditStore
	MapStore
	LogLineStore
	ConfigStore

	Close() error
}
