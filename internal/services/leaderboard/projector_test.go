package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/classgold/internal/model"
)

func student(id, class string, balance int) *model.Account {
	return &model.Account{
		ID:        model.AccountID(id),
		Name:      "Student " + id,
		Role:      model.RoleStudent,
		ClassName: class,
		Balance:   balance,
	}
}

func TestProjectRanksTiesInRosterOrder(t *testing.T) {
	roster := []*model.Account{
		student("s1", "5-A", 300),
		student("s2", "5-A", 900),
		student("s3", "5-A", 900),
		student("s4", "5-A", 100),
	}

	entries := Project(roster, "5-A", "s3")
	require.Len(t, entries, 4)

	assert.Equal(t, model.LeaderboardEntry{Rank: 1, AccountID: "s2", Name: "Student s2", Balance: 900}, entries[0])
	assert.Equal(t, model.LeaderboardEntry{Rank: 2, AccountID: "s3", Name: "Student s3", Balance: 900, IsSelf: true}, entries[1])
	assert.Equal(t, model.LeaderboardEntry{Rank: 3, AccountID: "s1", Name: "Student s1", Balance: 300}, entries[2])
	assert.Equal(t, model.LeaderboardEntry{Rank: 4, AccountID: "s4", Name: "Student s4", Balance: 100}, entries[3])
}

func TestProjectIsDeterministic(t *testing.T) {
	roster := []*model.Account{
		student("a", "5-A", 10),
		student("b", "5-A", 10),
		student("c", "5-A", 40),
		student("d", "5-A", 10),
		student("e", "5-A", 0),
	}

	first := Project(roster, "5-A", "b")
	second := Project(roster, "5-A", "b")
	assert.Equal(t, first, second)

	ids := make([]model.AccountID, len(first))
	for i, e := range first {
		ids[i] = e.AccountID
	}
	assert.Equal(t, []model.AccountID{"c", "a", "b", "d", "e"}, ids)
}

func TestProjectFiltersClassAndRole(t *testing.T) {
	roster := []*model.Account{
		student("s1", "5-A", 50),
		student("s2", "5-B", 500),
		{ID: "t1", Name: "Teacher", Role: model.RoleTeacher, ClassName: "5-A", Balance: 9999},
		student("s3", "5-A", 70),
	}

	entries := Project(roster, "5-A", "")
	require.Len(t, entries, 2)
	assert.Equal(t, model.AccountID("s3"), entries[0].AccountID)
	assert.Equal(t, model.AccountID("s1"), entries[1].AccountID)
	for _, e := range entries {
		assert.False(t, e.IsSelf)
	}
}

func TestProjectEmpty(t *testing.T) {
	assert.Empty(t, Project(nil, "5-A", "s1"))
	assert.Empty(t, Project([]*model.Account{student("s1", "5-B", 1)}, "5-A", "s1"))
}

func TestProjectDoesNotReorderRoster(t *testing.T) {
	roster := []*model.Account{
		student("s1", "5-A", 1),
		student("s2", "5-A", 2),
	}

	Project(roster, "5-A", "")
	assert.Equal(t, model.AccountID("s1"), roster[0].ID)
	assert.Equal(t, model.AccountID("s2"), roster[1].ID)
}
