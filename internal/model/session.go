package model

import (
	"sort"
	"time"
)

// SessionID identifies a single connection session
type SessionID int64

// SessionRecord is one connect/disconnect interval.
// Start and End are nil when the corresponding event was never seen.
type SessionRecord struct {
	ID        SessionID
	PlayerID  PlayerID
	CreatedAt time.Time
	Start     *time.Time
	End       *time.Time
}

// IsOpen reports whether the session has no recorded end
func (s SessionRecord) IsOpen() bool {
	return s.End == nil
}

// StartedAfter reports whether the session was created or started later than t.
// Such a t cannot start a newer session or end this one.
func (s SessionRecord) StartedAfter(t time.Time) bool {
	if s.CreatedAt.After(t) {
		return true
	}
	return s.Start != nil && s.Start.After(t)
}

// SortSessionsNewestFirst orders sessions by creation time, newest first.
// Equal creation times fall back to the higher id.
func SortSessionsNewestFirst(sessions []SessionRecord) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
}
