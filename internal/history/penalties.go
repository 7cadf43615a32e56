package history

import "github.com/mcoot/rconstore/internal/model"

// PenaltyCounts counts actions per penalty category. All penalty
// categories are present in the result, zero-filled; other categories
// are ignored.
func PenaltyCounts(actions []model.ActionRecord) map[model.ActionType]int {
	counts := make(map[model.ActionType]int, len(model.PenaltyTypes))
	for _, t := range model.PenaltyTypes {
		counts[t] = 0
	}
	for _, a := range actions {
		if a.Type.IsPenalty() {
			counts[a.Type]++
		}
	}
	return counts
}
