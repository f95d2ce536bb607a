package stats

import (
	"time"

	"ghstats/models"
)

// LongestStreak finds the longest run of consecutive calendar days in an
// ascending list of unique days. A gap of exactly one day continues the
// run; any larger gap resets it. The first maximal run wins ties.
func LongestStreak(days []time.Time) *models.Streak {
	if len(days) == 0 {
		return nil
	}

	maxLen, curLen := 1, 1
	maxStart, maxEnd := days[0], days[0]
	curStart := days[0]

	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			curLen++
		} else {
			if curLen > maxLen {
				maxLen = curLen
				maxStart = curStart
				maxEnd = days[i-1]
			}
			curLen = 1
			curStart = days[i]
		}
	}
	if curLen > maxLen {
		maxLen = curLen
		maxStart = curStart
		maxEnd = days[len(days)-1]
	}

	return &models.Streak{Days: maxLen, Start: maxStart, End: maxEnd}
}

// StreakFromRecords computes the longest streak over commit records.
func StreakFromRecords(records []models.CommitRecord) *models.Streak {
	return LongestStreak(uniqueDays(records))
}
