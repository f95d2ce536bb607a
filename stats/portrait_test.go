package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghstats/models"
)

func TestGenerateTeamPortrait(t *testing.T) {
	// Fri 10:00, Sat 11:00, Sun 12:00.
	team := FoldContributorStats(teamScenario())

	portrait := GenerateTeamPortrait(team)
	require.NotNil(t, portrait)

	assert.Equal(t, 1, portrait.WeekdayHist[4], "friday")
	assert.Equal(t, 1, portrait.WeekdayHist[5], "saturday")
	assert.Equal(t, 1, portrait.WeekdayHist[6], "sunday")
	assert.Equal(t, 0, portrait.WeekdayHist[0], "monday")

	assert.Equal(t, 1, portrait.HourHist[10])
	assert.Equal(t, 1, portrait.HourHist[11])
	assert.Equal(t, 1, portrait.HourHist[12])

	// 19 changed lines over 3 commits.
	assert.InDelta(t, 19.0/3.0, portrait.AvgLinesPerCommit, 1e-9)
}

func TestGenerateTeamPortraitEmpty(t *testing.T) {
	portrait := GenerateTeamPortrait(map[string]*models.ContributorStats{})
	require.NotNil(t, portrait)
	assert.Zero(t, portrait.AvgLinesPerCommit)
}

func TestGenerateRepoPortrait(t *testing.T) {
	records := []models.CommitRecord{
		record("org/grow", "alice", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 100, 10),
		record("org/churn", "alice", time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC), 80, 80),
		record("org/shrink", "bob", time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC), 5, 50),
	}
	team := FoldContributorStats(records)

	portrait := GenerateRepoPortrait(team, 5)
	require.NotNil(t, portrait)

	require.NotNil(t, portrait.GrowthChampion)
	assert.Equal(t, "org/grow", portrait.GrowthChampion.Name)
	assert.Equal(t, 90, portrait.GrowthChampion.Value)

	require.NotNil(t, portrait.RefactorChampion)
	assert.Equal(t, "org/churn", portrait.RefactorChampion.Name)
	assert.Equal(t, 160, portrait.RefactorChampion.Value)

	require.NotNil(t, portrait.SlimmingChampion)
	assert.Equal(t, "org/shrink", portrait.SlimmingChampion.Name)
	assert.Equal(t, -45, portrait.SlimmingChampion.Value)

	assert.Equal(t, 2, portrait.IdleRepos)
}

func TestGenerateRepoPortraitNoSlimmingWhenAllGrow(t *testing.T) {
	records := []models.CommitRecord{
		record("org/a", "alice", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 10, 1),
	}
	portrait := GenerateRepoPortrait(FoldContributorStats(records), 1)

	assert.Nil(t, portrait.SlimmingChampion)
	assert.Equal(t, 0, portrait.IdleRepos)
}

func TestGenerateRepoPortraitIdleNeverNegative(t *testing.T) {
	records := []models.CommitRecord{
		record("org/a", "alice", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 1, 0),
		record("org/b", "alice", time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC), 1, 0),
	}
	portrait := GenerateRepoPortrait(FoldContributorStats(records), 1)
	assert.Equal(t, 0, portrait.IdleRepos)
}
