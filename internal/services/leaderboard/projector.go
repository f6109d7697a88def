package leaderboard

import (
	"cmp"
	"slices"

	"github.com/mcoot/classgold/internal/model"
)

// Project ranks the students of a class by balance.
// Ties keep their roster order. Ranks start at 1 and are always sequential.
// The roster is not modified.
func Project(roster []*model.Account, className string, self model.AccountID) []model.LeaderboardEntry {
	students := make([]*model.Account, 0, len(roster))
	for _, a := range roster {
		if a.IsStudent() && a.ClassName == className {
			students = append(students, a)
		}
	}

	slices.SortStableFunc(students, func(a, b *model.Account) int {
		return cmp.Compare(b.Balance, a.Balance)
	})

	entries := make([]model.LeaderboardEntry, len(students))
	for i, a := range students {
		entries[i] = model.LeaderboardEntry{
			Rank:      i + 1,
			AccountID: a.ID,
			Name:      a.Name,
			Balance:   a.Balance,
			IsSelf:    a.ID == self,
		}
	}
	return entries
}
