package model

import (
	"encoding/json"
	"time"
)

// Blacklist is the optional blacklist status of an identity (one per identity)
type Blacklist struct {
	PlayerID      PlayerID
	IsBlacklisted bool
	Reason        string
	By            string
}

// Watchlist is the optional watchlist status of an identity (one per identity)
type Watchlist struct {
	PlayerID  PlayerID
	IsWatched bool
	Reason    string
	Comment   string
}

// SteamInfo is cached third-party profile metadata. It is always
// replaced wholesale, never merged.
type SteamInfo struct {
	ID        int64
	PlayerID  PlayerID
	CreatedAt time.Time
	UpdatedAt *time.Time
	Profile   json.RawMessage
	Country   string
	Bans      json.RawMessage
}

// PlayerFlag is a free-form marker attached to an identity.
// (PlayerID, Flag) is unique.
type PlayerFlag struct {
	ID       int64
	PlayerID PlayerID
	Flag     string
	Comment  string
	Modified time.Time
}
