package stats

import (
	"sort"
	"time"

	"ghstats/models"
)

// GenerateHighlights derives the best-of facts from commit records. Returns
// nil when there is nothing to highlight. All "best" picks use strictly
// greater comparisons over deterministically ordered inputs, so the first
// candidate in sorted order wins ties.
func GenerateHighlights(records []models.CommitRecord) *models.Highlights {
	if len(records) == 0 {
		return nil
	}

	days := uniqueDays(records)
	highlights := &models.Highlights{
		Streak:       LongestStreak(days),
		LongestBreak: longestBreak(days),
	}

	type dayTotals struct {
		commits int
		changes int
	}
	perDay := make(map[time.Time]*dayTotals)
	var perWeekdayChanges, perWeekdayCommits [7]int
	repoCommits := make(map[string]int)

	for _, record := range records {
		day := record.Day()
		dt, ok := perDay[day]
		if !ok {
			dt = &dayTotals{}
			perDay[day] = dt
		}
		changes := record.Additions + record.Deletions
		dt.commits++
		dt.changes += changes

		wd := mondayWeekday(record.Timestamp)
		perWeekdayChanges[wd] += changes
		perWeekdayCommits[wd]++

		repoCommits[record.Repo.FullName]++
	}

	// Best day by total line changes, first in date order on tie.
	for _, day := range days {
		dt := perDay[day]
		if highlights.BestDay == nil || dt.changes > highlights.BestDay.Changes {
			highlights.BestDay = &models.DayHighlight{Date: day, Commits: dt.commits, Changes: dt.changes}
		}
	}

	// Favorite weekday by total line changes, earliest weekday on tie.
	for wd := 0; wd < 7; wd++ {
		if perWeekdayCommits[wd] == 0 {
			continue
		}
		if highlights.FavoriteWeekday == nil || perWeekdayChanges[wd] > highlights.FavoriteWeekday.Changes {
			highlights.FavoriteWeekday = &models.WeekdayHighlight{
				Weekday: time.Weekday((wd + 1) % 7),
				Commits: perWeekdayCommits[wd],
				Changes: perWeekdayChanges[wd],
			}
		}
	}

	// Most contributed-to repo by commit count, first name on tie.
	names := make([]string, 0, len(repoCommits))
	for name := range repoCommits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if highlights.BestRepo == nil || repoCommits[name] > highlights.BestRepo.Commits {
			highlights.BestRepo = &models.RepoHighlight{Name: name, Commits: repoCommits[name]}
		}
	}

	return highlights
}

// longestBreak finds the longest idle gap between consecutive active days,
// reported as the first and last fully idle days. Nil when no gap exceeds
// one day.
func longestBreak(days []time.Time) *models.Break {
	var best *models.Break
	for i := 1; i < len(days); i++ {
		gap := int(days[i].Sub(days[i-1]).Hours()/24) - 1
		if gap < 1 {
			continue
		}
		if best == nil || gap > best.Days {
			best = &models.Break{
				Days:  gap,
				Start: days[i-1].AddDate(0, 0, 1),
				End:   days[i].AddDate(0, 0, -1),
			}
		}
	}
	return best
}
