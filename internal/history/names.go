package history

import "github.com/mcoot/rconstore/internal/model"

// MostRecentName returns the name with the latest last-seen time. Names
// without a last-seen time only win when no other name has one.
func MostRecentName(names []model.NameRecord) (model.NameRecord, bool) {
	if len(names) == 0 {
		return model.NameRecord{}, false
	}
	best := names[0]
	for _, n := range names[1:] {
		if n.LastSeen == nil {
			continue
		}
		if best.LastSeen == nil || n.LastSeen.After(*best.LastSeen) {
			best = n
		}
	}
	return best, true
}
