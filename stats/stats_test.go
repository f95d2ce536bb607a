package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghstats/models"
)

func record(repo, login string, ts time.Time, added, deleted int) models.CommitRecord {
	return models.CommitRecord{
		SHA:         login + ts.Format("20060102150405"),
		Repo:        models.ParseRepoRef(repo, login),
		AuthorLogin: login,
		Timestamp:   ts,
		Additions:   added,
		Deletions:   deleted,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// teamScenario is the shared fixture: alice commits on 03-01 (+10/-2) and
// 03-03 (+5/-0), bob once on 03-02 (+1/-1), all in org/svc.
func teamScenario() []models.CommitRecord {
	return []models.CommitRecord{
		record("org/svc", "alice", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 10, 2),
		record("org/svc", "bob", time.Date(2024, time.March, 2, 11, 0, 0, 0, time.UTC), 1, 1),
		record("org/svc", "alice", time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC), 5, 0),
	}
}

func TestContributor(t *testing.T) {
	assert.Equal(t, "alice", Contributor(models.CommitRecord{AuthorLogin: "alice", AuthorName: "Alice L"}))
	assert.Equal(t, "Alice L", Contributor(models.CommitRecord{AuthorName: "Alice L"}))
}

func TestFoldRepoStats(t *testing.T) {
	records := teamScenario()
	records = append(records, record("org/web", "alice", time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), 3, 3))

	folded := FoldRepoStats(records)
	require.Len(t, folded, 2)

	svc := folded["org/svc"]
	require.NotNil(t, svc)
	assert.Equal(t, 3, svc.Commits)
	assert.Equal(t, 16, svc.Added)
	assert.Equal(t, 3, svc.Deleted)
	assert.Len(t, svc.Messages, 3)

	web := folded["org/web"]
	require.NotNil(t, web)
	assert.Equal(t, 1, web.Commits)
}

func TestFoldContributorStats(t *testing.T) {
	folded := FoldContributorStats(teamScenario())
	require.Len(t, folded, 2)

	alice := folded["alice"]
	require.NotNil(t, alice)
	assert.Equal(t, 2, alice.Commits)
	assert.Equal(t, 15, alice.Added)
	assert.Equal(t, 2, alice.Deleted)
	require.Contains(t, alice.Repos, "org/svc")
	assert.Equal(t, 2, alice.Repos["org/svc"].Commits)

	bob := folded["bob"]
	require.NotNil(t, bob)
	assert.Equal(t, 1, bob.Commits)
	assert.Equal(t, 1, bob.Added)
	assert.Equal(t, 1, bob.Deleted)
}

func TestFoldContributorStatsFallsBackToName(t *testing.T) {
	r := record("org/svc", "", time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC), 1, 0)
	r.AuthorName = "Ghost Committer"

	folded := FoldContributorStats([]models.CommitRecord{r})
	assert.Contains(t, folded, "Ghost Committer")
}

func TestLongestStreak(t *testing.T) {
	testCases := []struct {
		name     string
		days     []time.Time
		expected *models.Streak
	}{
		{
			name:     "empty",
			days:     nil,
			expected: nil,
		},
		{
			name:     "single day",
			days:     []time.Time{day(2024, time.January, 1)},
			expected: &models.Streak{Days: 1, Start: day(2024, time.January, 1), End: day(2024, time.January, 1)},
		},
		{
			name: "run then gap",
			days: []time.Time{
				day(2024, time.January, 1), day(2024, time.January, 2), day(2024, time.January, 3),
				day(2024, time.January, 5),
			},
			expected: &models.Streak{Days: 3, Start: day(2024, time.January, 1), End: day(2024, time.January, 3)},
		},
		{
			name: "later run wins when longer",
			days: []time.Time{
				day(2024, time.January, 1),
				day(2024, time.January, 3), day(2024, time.January, 4),
			},
			expected: &models.Streak{Days: 2, Start: day(2024, time.January, 3), End: day(2024, time.January, 4)},
		},
		{
			name: "first maximal run wins ties",
			days: []time.Time{
				day(2024, time.January, 1), day(2024, time.January, 2),
				day(2024, time.January, 5), day(2024, time.January, 6),
			},
			expected: &models.Streak{Days: 2, Start: day(2024, time.January, 1), End: day(2024, time.January, 2)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LongestStreak(tc.days))
		})
	}
}

func TestStreakFromRecordsPerContributor(t *testing.T) {
	folded := FoldContributorStats(teamScenario())

	// alice's 03-01 and 03-03 are not contiguous because 03-02 has no
	// alice commit.
	streak := StreakFromRecords(folded["alice"].Messages)
	require.NotNil(t, streak)
	assert.Equal(t, 1, streak.Days)
}
