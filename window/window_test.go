package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghstats/models"
)

// Wednesday
var today = Date(2024, time.March, 13)

func TestNormalize(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*3600)

	w := models.ActivityWindow{Since: Date(2024, time.January, 1), Until: Date(2024, time.January, 1)}
	utcStart, utcEnd := Normalize(w, shanghai)

	// Local midnight in UTC+8 is 16:00 the previous day in UTC.
	assert.Equal(t, time.Date(2023, time.December, 31, 16, 0, 0, 0, time.UTC), utcStart)
	assert.Equal(t, time.Date(2024, time.January, 1, 15, 59, 59, 999999000, time.UTC), utcEnd)
}

func TestNormalizeUTC(t *testing.T) {
	w := models.ActivityWindow{Since: Date(2024, time.March, 1), Until: Date(2024, time.March, 2)}
	utcStart, utcEnd := Normalize(w, time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), utcStart)
	assert.Equal(t, time.Date(2024, time.March, 2, 23, 59, 59, 999999000, time.UTC), utcEnd)
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"today", "today", today},
		{"now", "now", today},
		{"iso date", "2024-01-31", Date(2024, time.January, 31)},
		{"compact date", "20240131", Date(2024, time.January, 31)},
		{"simple days", "3days", today.AddDate(0, 0, -3)},
		{"simple singular", "1day", today.AddDate(0, 0, -1)},
		{"simple weeks", "2weeks", today.AddDate(0, 0, -14)},
		{"simple month", "1month", today.AddDate(0, 0, -30)},
		{"simple year", "1year", today.AddDate(0, 0, -365)},
		{"anchored minus", "today-1week", today.AddDate(0, 0, -7)},
		{"anchored plus", "now+2days", today.AddDate(0, 0, 2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input, today)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseDateErrors(t *testing.T) {
	for _, input := range []string{"", "notadate", "20241301", "20240132", "week-1today"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseDate(input, today)
			assert.Error(t, err)
		})
	}
}

func TestParseRange(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		since time.Time
		until time.Time
	}{
		{"today", "today", today, today},
		{"yesterday", "yesterday", today.AddDate(0, 0, -1), today.AddDate(0, 0, -1)},
		{"this week from monday", "week", Date(2024, time.March, 11), today},
		{"last week full", "lastweek", Date(2024, time.March, 4), Date(2024, time.March, 10)},
		{"this month", "month", Date(2024, time.March, 1), today},
		{"last month", "lastmonth", Date(2024, time.February, 1), Date(2024, time.February, 29)},
		{"quarter", "quarter", Date(2024, time.January, 1), today},
		{"this year", "year", Date(2024, time.January, 1), today},
		{"last year", "lastyear", Date(2023, time.January, 1), Date(2023, time.December, 31)},
		{"relative fallback", "3days", today.AddDate(0, 0, -3), today},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRange(tc.input, today)
			require.NoError(t, err)
			assert.Equal(t, tc.since, got.Since, "since")
			assert.Equal(t, tc.until, got.Until, "until")
		})
	}
}

func TestParseRangeOnMonday(t *testing.T) {
	monday := Date(2024, time.March, 11)

	w, err := ParseRange("week", monday)
	require.NoError(t, err)
	assert.Equal(t, monday, w.Since)
	assert.Equal(t, monday, w.Until)

	w, err = ParseRange("lastweek", monday)
	require.NoError(t, err)
	assert.Equal(t, Date(2024, time.March, 4), w.Since)
	assert.Equal(t, Date(2024, time.March, 10), w.Until)
}

func TestParseRangeUnknown(t *testing.T) {
	_, err := ParseRange("fortnight", today)
	assert.Error(t, err)
}

func TestWindowDays(t *testing.T) {
	w := models.ActivityWindow{Since: Date(2024, time.January, 1), Until: Date(2024, time.January, 7)}
	assert.Equal(t, 7, w.Days())

	single := models.ActivityWindow{Since: today, Until: today}
	assert.Equal(t, 1, single.Days())
}
