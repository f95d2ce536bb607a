package stats

import (
	"ghstats/models"
)

// GenerateTeamPortrait profiles the team's working rhythm: weekday and
// hour-of-day histograms over local commit timestamps, plus average lines
// changed per commit.
func GenerateTeamPortrait(team map[string]*models.ContributorStats) *models.TeamPortrait {
	portrait := &models.TeamPortrait{}
	totalCommits, totalChanges := 0, 0

	for _, name := range sortedNames(team) {
		cs := team[name]
		totalCommits += cs.Commits
		totalChanges += cs.Added + cs.Deleted
		for _, record := range cs.Messages {
			portrait.WeekdayHist[mondayWeekday(record.Timestamp)]++
			portrait.HourHist[record.Timestamp.Hour()]++
		}
	}

	if totalCommits > 0 {
		portrait.AvgLinesPerCommit = float64(totalChanges) / float64(totalCommits)
	}
	return portrait
}

// GenerateRepoPortrait crowns the champion repositories across every
// contributor's breakdown. The slimming champion is only reported when its
// net growth is actually negative.
func GenerateRepoPortrait(team map[string]*models.ContributorStats, totalReposDiscovered int) *models.RepoPortrait {
	type repoTotals struct {
		net   int
		churn int
	}
	totals := make(map[string]*repoTotals)

	for _, name := range sortedNames(team) {
		for repoName, b := range team[name].Repos {
			rt, ok := totals[repoName]
			if !ok {
				rt = &repoTotals{}
				totals[repoName] = rt
			}
			rt.net += b.Added - b.Deleted
			rt.churn += b.Added + b.Deleted
		}
	}

	portrait := &models.RepoPortrait{
		IdleRepos: max(0, totalReposDiscovered-len(totals)),
	}

	for _, repoName := range sortedNames(totals) {
		rt := totals[repoName]
		if portrait.GrowthChampion == nil || rt.net > portrait.GrowthChampion.Value {
			portrait.GrowthChampion = &models.RepoChampion{Name: repoName, Value: rt.net}
		}
		if portrait.RefactorChampion == nil || rt.churn > portrait.RefactorChampion.Value {
			portrait.RefactorChampion = &models.RepoChampion{Name: repoName, Value: rt.churn}
		}
		if rt.net < 0 && (portrait.SlimmingChampion == nil || rt.net < portrait.SlimmingChampion.Value) {
			portrait.SlimmingChampion = &models.RepoChampion{Name: repoName, Value: rt.net}
		}
	}

	return portrait
}
