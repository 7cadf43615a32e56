package response

import (
	"time"

	"github.com/mcoot/rconstore/internal/model"
	"github.com/mcoot/rconstore/internal/services/auth"
	"github.com/mcoot/rconstore/internal/services/players"
)

// Player represents an identity in API responses
type Player struct {
	ID        model.PlayerID `json:"id"`
	SteamID64 string         `json:"steam_id_64"`
	Created   time.Time      `json:"created"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:        p.ID,
		SteamID64: p.SteamID64,
		Created:   p.CreatedAt.UTC(),
	}
}

// AuthResponse is the response for the login endpoint
type AuthResponse struct {
	Operator     string    `json:"operator"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Operator:     s.Operator,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt.UTC(),
	}
}

// Names lists a player's names
type Names struct {
	Names []players.NameView `json:"names"`
}

// Sessions lists a page of sessions along with playtime figures
type Sessions struct {
	Sessions               []players.SessionView `json:"sessions"`
	SessionsCount          int                   `json:"sessions_count"`
	TotalPlaytimeSeconds   int64                 `json:"total_playtime_seconds"`
	CurrentPlaytimeSeconds int64                 `json:"current_playtime_seconds"`
}

// SessionStarted is returned when a session opens
type SessionStarted struct {
	SessionID model.SessionID `json:"session_id"`
}

// Actions lists a player's actions
type Actions struct {
	ReceivedActions []players.ActionView `json:"received_actions"`
}

// Penalties holds the fixed four-key penalty summary
type Penalties struct {
	PenaltyCount map[model.ActionType]int `json:"penalty_count"`
}

// AuditEntry represents one audit log row
type AuditEntry struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	CreationTime time.Time `json:"creation_time"`
	Command      string    `json:"command"`
	Arguments    string    `json:"command_arguments"`
	Result       string    `json:"command_result"`
}

// AuditEntriesFromModel converts audit rows
func AuditEntriesFromModel(entries []model.AuditEntry) []AuditEntry {
	out := make([]AuditEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntry{
			ID:           e.ID,
			Username:     e.Username,
			CreationTime: e.CreatedAt.UTC(),
			Command:      e.Command,
			Arguments:    e.Arguments,
			Result:       e.Result,
		})
	}
	return out
}

// Map represents one map rotation entry
type Map struct {
	ID           int64      `json:"id"`
	CreationTime time.Time  `json:"creation_time"`
	Start        time.Time  `json:"start"`
	End          *time.Time `json:"end"`
	ServerNumber int        `json:"server_number"`
	MapName      string     `json:"map_name"`
}

// MapFromModel converts a map record
func MapFromModel(m *model.MapRecord) Map {
	var end *time.Time
	if m.End != nil {
		e := m.End.UTC()
		end = &e
	}
	return Map{
		ID:           m.ID,
		CreationTime: m.CreatedAt.UTC(),
		Start:        m.Start.UTC(),
		End:          end,
		ServerNumber: m.ServerNumber,
		MapName:      m.MapName,
	}
}

// MapsFromModel converts map records
func MapsFromModel(records []model.MapRecord) []Map {
	out := make([]Map, 0, len(records))
	for i := range records {
		out = append(out, MapFromModel(&records[i]))
	}
	return out
}

// LogLineStored acknowledges an ingested log line
type LogLineStored struct {
	ID        int64           `json:"id"`
	Player1ID *model.PlayerID `json:"player1_id"`
	Player2ID *model.PlayerID `json:"player2_id"`
}
