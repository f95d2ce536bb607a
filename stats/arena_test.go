package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghstats/models"
)

func arenaTeam() map[string]*models.ContributorStats {
	records := []models.CommitRecord{
		// alice: 3 commits, +30/-6, days 03-01..03-03, two repos.
		record("org/svc", "alice", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 10, 2),
		record("org/svc", "alice", time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC), 10, 2),
		record("org/web", "alice", time.Date(2024, time.March, 3, 10, 0, 0, 0, time.UTC), 10, 2),
		// bob: 1 commit, +100/-50, one repo, one day.
		record("org/svc", "bob", time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), 100, 50),
	}
	return FoldContributorStats(records)
}

func TestGenerateArenaRankings(t *testing.T) {
	rankings := GenerateArenaRankings(arenaTeam(), 0)
	require.NotNil(t, rankings)

	require.Len(t, rankings.Commits, 2)
	assert.Equal(t, "alice", rankings.Commits[0].Contributor)
	assert.Equal(t, 3.0, rankings.Commits[0].Value)

	assert.Equal(t, "bob", rankings.Additions[0].Contributor)
	assert.Equal(t, 100.0, rankings.Additions[0].Value)

	assert.Equal(t, "bob", rankings.NetGrowth[0].Contributor)
	assert.Equal(t, 50.0, rankings.NetGrowth[0].Value)

	assert.Equal(t, "bob", rankings.TotalChanges[0].Contributor)
	assert.Equal(t, 150.0, rankings.TotalChanges[0].Value)

	assert.Equal(t, "alice", rankings.ActiveRepos[0].Contributor)
	assert.Equal(t, 2.0, rankings.ActiveRepos[0].Value)

	assert.Equal(t, "alice", rankings.ActiveDays[0].Contributor)
	assert.Equal(t, 3.0, rankings.ActiveDays[0].Value)

	require.Len(t, rankings.LongestStreak, 2)
	assert.Equal(t, "alice", rankings.LongestStreak[0].Contributor)
	assert.Equal(t, 3, rankings.LongestStreak[0].Streak.Days)

	// Larger average commits rank first: bob 150.0 vs alice 12.0.
	require.Len(t, rankings.AvgCommitSize, 2)
	assert.Equal(t, "bob", rankings.AvgCommitSize[0].Contributor)
	assert.Equal(t, 150.0, rankings.AvgCommitSize[0].Value)
	assert.Equal(t, 12.0, rankings.AvgCommitSize[1].Value)
}

func TestGenerateArenaRankingsAvgRounding(t *testing.T) {
	records := []models.CommitRecord{
		record("org/svc", "carol", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 1, 0),
		record("org/svc", "carol", time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC), 1, 0),
		record("org/svc", "carol", time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC), 2, 0),
	}
	rankings := GenerateArenaRankings(FoldContributorStats(records), 0)

	// 4 lines over 3 commits rounds to 1.3.
	require.Len(t, rankings.AvgCommitSize, 1)
	assert.Equal(t, 1.3, rankings.AvgCommitSize[0].Value)
}

func TestGenerateArenaRankingsTiesByName(t *testing.T) {
	records := []models.CommitRecord{
		record("org/svc", "zoe", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 5, 0),
		record("org/svc", "amy", time.Date(2024, time.March, 1, 11, 0, 0, 0, time.UTC), 5, 0),
	}
	rankings := GenerateArenaRankings(FoldContributorStats(records), 0)

	// Identical metrics; name order decides, every run.
	assert.Equal(t, "amy", rankings.Commits[0].Contributor)
	assert.Equal(t, "zoe", rankings.Commits[1].Contributor)
}

func TestGenerateArenaRankingsTruncation(t *testing.T) {
	rankings := GenerateArenaRankings(arenaTeam(), 1)

	assert.Len(t, rankings.Commits, 1)
	assert.Len(t, rankings.Additions, 1)
	assert.Len(t, rankings.LongestStreak, 1)
	assert.Equal(t, "alice", rankings.Commits[0].Contributor)
}
