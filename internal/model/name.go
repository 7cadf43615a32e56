package model

import (
	"sort"
	"time"
)

// NameRecord is one display name observed for an identity.
// (PlayerID, Name) is unique.
type NameRecord struct {
	ID        int64
	PlayerID  PlayerID
	Name      string
	FirstSeen time.Time
	LastSeen  *time.Time // nil only for legacy rows
}

// SortNamesByLastSeen orders names most recently seen first, with
// missing last-seen values at the end. Ties keep insertion order.
func SortNamesByLastSeen(names []NameRecord) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := names[i].LastSeen, names[j].LastSeen
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}
