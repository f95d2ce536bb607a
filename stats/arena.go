package stats

import (
	"math"
	"sort"

	"ghstats/models"
)

// GenerateArenaRankings builds every competitive board from team stats.
// Each board is sorted descending by its metric; ties resolve to contributor
// name order because every sort starts from a name-sorted slice and is
// stable, which keeps the output identical across runs. Average commit size
// ranks descending like every other board, so larger average commits score
// higher.
//
// topN > 0 truncates every board; 0 keeps everyone.
func GenerateArenaRankings(team map[string]*models.ContributorStats, topN int) *models.ArenaRankings {
	names := sortedNames(team)

	board := func(value func(*models.ContributorStats) (float64, bool)) []models.RankingEntry {
		entries := make([]models.RankingEntry, 0, len(names))
		for _, name := range names {
			if v, ok := value(team[name]); ok {
				entries = append(entries, models.RankingEntry{Contributor: name, Value: v})
			}
		}
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Value > entries[j].Value })
		return truncate(entries, topN)
	}

	always := func(f func(*models.ContributorStats) float64) func(*models.ContributorStats) (float64, bool) {
		return func(cs *models.ContributorStats) (float64, bool) { return f(cs), true }
	}

	rankings := &models.ArenaRankings{
		Commits:      board(always(func(cs *models.ContributorStats) float64 { return float64(cs.Commits) })),
		Additions:    board(always(func(cs *models.ContributorStats) float64 { return float64(cs.Added) })),
		Deletions:    board(always(func(cs *models.ContributorStats) float64 { return float64(cs.Deleted) })),
		NetGrowth:    board(always(func(cs *models.ContributorStats) float64 { return float64(cs.Added - cs.Deleted) })),
		TotalChanges: board(always(func(cs *models.ContributorStats) float64 { return float64(cs.Added + cs.Deleted) })),
		ActiveRepos:  board(always(func(cs *models.ContributorStats) float64 { return float64(len(cs.Repos)) })),
		ActiveDays: board(always(func(cs *models.ContributorStats) float64 {
			return float64(len(uniqueDays(cs.Messages)))
		})),
		AvgCommitSize: board(func(cs *models.ContributorStats) (float64, bool) {
			if cs.Commits == 0 {
				return 0, false
			}
			avg := float64(cs.Added+cs.Deleted) / float64(cs.Commits)
			return math.Round(avg*10) / 10, true
		}),
	}

	// Streak board carries the streak's span, not just its length.
	streaks := make([]models.StreakRankingEntry, 0, len(names))
	for _, name := range names {
		if streak := StreakFromRecords(team[name].Messages); streak != nil {
			streaks = append(streaks, models.StreakRankingEntry{Contributor: name, Streak: *streak})
		}
	}
	sort.SliceStable(streaks, func(i, j int) bool { return streaks[i].Streak.Days > streaks[j].Streak.Days })
	rankings.LongestStreak = truncate(streaks, topN)

	return rankings
}

func truncate[T any](entries []T, topN int) []T {
	if topN > 0 && len(entries) > topN {
		return entries[:topN]
	}
	return entries
}
