package model

import (
	"strings"
	"time"
)

// PlayerID is the internal identifier of a player identity
type PlayerID int64

// Player is the canonical identity record for one platform account
type Player struct {
	ID        PlayerID
	SteamID64 string // external platform identifier, opaque and immutable
	CreatedAt time.Time
}

// NormalizeSteamID trims the external identifier and rejects empty or
// whitespace-bearing values. The identifier is otherwise opaque.
func NormalizeSteamID(steamID string) (string, error) {
	steamID = strings.TrimSpace(steamID)
	if steamID == "" || strings.ContainsAny(steamID, " \t\r\n") || len(steamID) > 64 {
		return "", ErrInvalidSteamID
	}
	return steamID, nil
}

// PlayerHistory bundles every row owned by one identity, read together
type PlayerHistory struct {
	Player    Player
	Names     []NameRecord    // most recent first, nulls last
	Sessions  []SessionRecord // newest created first
	Actions   []ActionRecord  // newest first
	Flags     []PlayerFlag
	Blacklist *Blacklist
	Watchlist *Watchlist
	SteamInfo *SteamInfo
}
