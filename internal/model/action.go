package model

import (
	"sort"
	"strings"
	"time"
)

// ActionType is the category of a moderation action
type ActionType string

const (
	ActionKick       ActionType = "KICK"
	ActionPunish     ActionType = "PUNISH"
	ActionTempBan    ActionType = "TEMPBAN"
	ActionPermaBan   ActionType = "PERMABAN"
	ActionUnban      ActionType = "UNBAN"
	ActionMessage    ActionType = "MESSAGE"
	ActionSwitchTeam ActionType = "SWITCH_TEAM"
	ActionBlacklist  ActionType = "BLACKLIST"
)

// PenaltyTypes are the categories counted in penalty summaries, in display order
var PenaltyTypes = []ActionType{ActionKick, ActionPunish, ActionTempBan, ActionPermaBan}

// IsPenalty reports whether the action type counts towards penalty totals
func (t ActionType) IsPenalty() bool {
	for _, p := range PenaltyTypes {
		if t == p {
			return true
		}
	}
	return false
}

// ParseActionType normalizes a category name. Categories outside the known
// set are accepted since actions are also ingested from game logs.
func ParseActionType(s string) (ActionType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", ErrInvalidActionType
	}
	return ActionType(s), nil
}

// ActionRecord is one moderation action received by a player. Append-only.
type ActionRecord struct {
	ID       int64
	PlayerID PlayerID
	Type     ActionType
	Reason   string
	By       string
	Time     time.Time
}

// SortActionsNewestFirst orders actions by time, newest first
func SortActionsNewestFirst(actions []ActionRecord) {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Time.Equal(actions[j].Time) {
			return actions[i].ID > actions[j].ID
		}
		return actions[i].Time.After(actions[j].Time)
	})
}
