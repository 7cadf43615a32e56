package history

import (
	"time"

	"github.com/mcoot/rconstore/internal/model"
)

// TotalPlaytimeSeconds sums the measurable duration of every session.
// Sessions must be ordered newest created first.
//
// Only index 0 may still be accruing: an open session there counts up to
// now. Any other session needs both start and end to contribute; rows with
// gaps contribute nothing.
func TotalPlaytimeSeconds(sessions []model.SessionRecord, now time.Time) int64 {
	var total time.Duration
	for i, s := range sessions {
		switch {
		case i == 0 && s.End == nil && s.Start != nil:
			total += now.Sub(*s.Start)
		case s.Start != nil && s.End != nil:
			total += s.End.Sub(*s.Start)
		}
	}
	return int64(total / time.Second)
}

// CurrentPlaytimeSeconds is the time elapsed since the newest session
// began, falling back to its creation time when no start was recorded.
// It does not check whether that session has ended: it answers "how long
// since the last connect", which is what admin displays rely on.
func CurrentPlaytimeSeconds(sessions []model.SessionRecord, now time.Time) int64 {
	if len(sessions) == 0 {
		return 0
	}
	ref := sessions[0].CreatedAt
	if sessions[0].Start != nil {
		ref = *sessions[0].Start
	}
	return int64(now.Sub(ref) / time.Second)
}
