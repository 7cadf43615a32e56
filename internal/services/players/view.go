package players

import (
	"encoding/json"
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

// Snapshot is the serialized read model of one identity
type Snapshot struct {
	ID                     model.PlayerID           `json:"id"`
	SteamID64              string                   `json:"steam_id_64"`
	Created                time.Time                `json:"created"`
	Names                  []NameView               `json:"names"`
	Sessions               []SessionView            `json:"sessions"`
	SessionsCount          int                      `json:"sessions_count"`
	TotalPlaytimeSeconds   int64                    `json:"total_playtime_seconds"`
	CurrentPlaytimeSeconds int64                    `json:"current_playtime_seconds"`
	ReceivedActions        []ActionView             `json:"received_actions"`
	PenaltyCount           map[model.ActionType]int `json:"penalty_count"`
	Blacklist              *BlacklistView           `json:"blacklist"`
	Flags                  []FlagView               `json:"flags"`
	Watchlist              *WatchlistView           `json:"watchlist"`
	SteamInfo              *SteamInfoView           `json:"steaminfo"`
}

// NameView is one observed name in API form
type NameView struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	SteamID64 string     `json:"steam_id_64"`
	Created   time.Time  `json:"created"`
	LastSeen  *time.Time `json:"last_seen"`
}

// SessionView is one play session in API form
type SessionView struct {
	ID        model.SessionID `json:"id"`
	SteamID64 string          `json:"steam_id_64"`
	Start     *time.Time      `json:"start"`
	End       *time.Time      `json:"end"`
	Created   time.Time       `json:"created"`
}

// ActionView is one recorded moderation action
type ActionView struct {
	ActionType model.ActionType `json:"action_type"`
	Reason     string           `json:"reason"`
	By         string           `json:"by"`
	Time       time.Time        `json:"time"`
}

// BlacklistView is the blacklist attachment of a player
type BlacklistView struct {
	IsBlacklisted bool   `json:"is_blacklisted"`
	Reason        string `json:"reason"`
	By            string `json:"by"`
}

// WatchlistView is the watchlist attachment of a player
type WatchlistView struct {
	IsWatched bool   `json:"is_watched"`
	Reason    string `json:"reason"`
	Comment   string `json:"comment"`
}

// SteamInfoView is the cached Steam profile of a player
type SteamInfoView struct {
	ID      int64           `json:"id"`
	Created time.Time       `json:"created"`
	Updated *time.Time      `json:"updated"`
	Profile json.RawMessage `json:"profile"`
	Country string          `json:"country"`
	Bans    json.RawMessage `json:"bans"`
}

// FlagView is one flag attached to a player
type FlagView struct {
	ID       int64     `json:"id"`
	Flag     string    `json:"flag"`
	Comment  string    `json:"comment"`
	Modified time.Time `json:"modified"`
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Collection projections never return nil slices

// NewNameViews converts name records for the given player
func NewNameViews(steamID string, names []model.NameRecord) []NameView {
	views := make([]NameView, 0, len(names))
	for _, n := range names {
		views = append(views, NameView{
			ID:        n.ID,
			Name:      n.Name,
			SteamID64: steamID,
			Created:   n.FirstSeen.UTC(),
			LastSeen:  utc(n.LastSeen),
		})
	}
	return views
}

// NewSessionViews converts session records for the given player
func NewSessionViews(steamID string, sessions []model.SessionRecord) []SessionView {
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, SessionView{
			ID:        s.ID,
			SteamID64: steamID,
			Start:     utc(s.Start),
			End:       utc(s.End),
			Created:   s.CreatedAt.UTC(),
		})
	}
	return views
}

// NewActionViews converts action records
func NewActionViews(actions []model.ActionRecord) []ActionView {
	views := make([]ActionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, ActionView{
			ActionType: a.Type,
			Reason:     a.Reason,
			By:         a.By,
			Time:       a.Time.UTC(),
		})
	}
	return views
}

// NewFlagViews converts player flags
func NewFlagViews(flags []model.PlayerFlag) []FlagView {
	views := make([]FlagView, 0, len(flags))
	for _, f := range flags {
		views = append(views, FlagView{
			ID:       f.ID,
			Flag:     f.Flag,
			Comment:  f.Comment,
			Modified: f.Modified.UTC(),
		})
	}
	return views
}

// Attachment projections return nil for a missing record

// NewBlacklistView returns nil when b is nil
func NewBlacklistView(b *model.Blacklist) *BlacklistView {
	if b == nil {
		return nil
	}
	return &BlacklistView{IsBlacklisted: b.IsBlacklisted, Reason: b.Reason, By: b.By}
}

// NewWatchlistView returns nil when w is nil
func NewWatchlistView(w *model.Watchlist) *WatchlistView {
	if w == nil {
		return nil
	}
	return &WatchlistView{IsWatched: w.IsWatched, Reason: w.Reason, Comment: w.Comment}
}

// NewSteamInfoView returns nil when info is nil
func NewSteamInfoView(info *model.SteamInfo) *SteamInfoView {
	if info == nil {
		return nil
	}
	return &SteamInfoView{
		ID:      info.ID,
		Created: info.CreatedAt.UTC(),
		Updated: utc(info.UpdatedAt),
		Profile: info.Profile,
		Country: info.Country,
		Bans:    info.Bans,
	}
}
