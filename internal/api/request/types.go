package request

import (
	"encoding/json"
	"time"
)

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// NameRequest records a display name observation
type NameRequest struct {
	Name string     `json:"name" validate:"required,max=255"`
	At   *time.Time `json:"at"`
}

// SessionRequest starts or ends a session. At defaults to now.
type SessionRequest struct {
	At *time.Time `json:"at"`
}

// ActionRequest records a moderation action
type ActionRequest struct {
	ActionType string     `json:"action_type" validate:"required,max=64"`
	Reason     string     `json:"reason" validate:"max=2048"`
	At         *time.Time `json:"at"`
}

// BlacklistRequest sets the blacklist status
type BlacklistRequest struct {
	IsBlacklisted *bool  `json:"is_blacklisted" validate:"required"`
	Reason        string `json:"reason" validate:"max=2048"`
}

// WatchlistRequest sets the watchlist status
type WatchlistRequest struct {
	IsWatched *bool  `json:"is_watched" validate:"required"`
	Reason    string `json:"reason" validate:"max=2048"`
	Comment   string `json:"comment" validate:"max=2048"`
}

// SteamInfoRequest replaces the cached profile
type SteamInfoRequest struct {
	Profile json.RawMessage `json:"profile"`
	Country string          `json:"country" validate:"omitempty,len=2,alpha"`
	Bans    json.RawMessage `json:"bans"`
}

// FlagRequest attaches a flag
type FlagRequest struct {
	Flag    string `json:"flag" validate:"required,max=64"`
	Comment string `json:"comment" validate:"max=2048"`
}

// MapStartRequest records a map starting on a server
type MapStartRequest struct {
	Server  int        `json:"server" validate:"min=0"`
	MapName string     `json:"map_name" validate:"required,max=255"`
	At      *time.Time `json:"at"`
}

// MapEndRequest records the running map ending on a server
type MapEndRequest struct {
	Server int        `json:"server" validate:"min=0"`
	At     *time.Time `json:"at"`
}

// LogLineRequest submits one parsed game event
type LogLineRequest struct {
	Version        int       `json:"version" validate:"min=0"`
	EventTime      time.Time `json:"event_time" validate:"required"`
	Type           string    `json:"type" validate:"required,max=64"`
	Player1Name    string    `json:"player1_name" validate:"max=255"`
	Player1SteamID string    `json:"player1_steam_id" validate:"max=64"`
	Player2Name    string    `json:"player2_name" validate:"max=255"`
	Player2SteamID string    `json:"player2_steam_id" validate:"max=64"`
	Raw            string    `json:"raw" validate:"required"`
	Content        string    `json:"content"`
	Server         string    `json:"server" validate:"max=32"`
}
