// Package window resolves user-supplied calendar ranges and converts them
// into the UTC instants the GitHub API expects. All functions are pure: the
// reference day and the operator's timezone are passed in explicitly,
// never read from ambient process state.
package window

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"ghstats/models"
)

var (
	compactRe  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	simpleRe   = regexp.MustCompile(`^(\d+)(day|week|month|year)s?$`)
	anchoredRe = regexp.MustCompile(`^(today|now)([-+])(\d+)(day|week|month|year)s?$`)
)

// Date constructs a calendar date value (midnight UTC carrier).
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf truncates an instant to its calendar date in the instant's location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Normalize converts an inclusive local calendar range into UTC bounds:
// local midnight of Since up to the last microsecond of Until, both
// expressed in the operator's location before converting to UTC.
func Normalize(w models.ActivityWindow, loc *time.Location) (utcStart, utcEnd time.Time) {
	sy, sm, sd := w.Since.Date()
	uy, um, ud := w.Until.Date()
	utcStart = time.Date(sy, sm, sd, 0, 0, 0, 0, loc).UTC()
	utcEnd = time.Date(uy, um, ud, 23, 59, 59, 999999000, loc).UTC()
	return utcStart, utcEnd
}

// ParseDate understands absolute dates (2024-01-31, 20240131) and relative
// ones (today, now, 3days, today-1week, now+2days) measured from today.
// Months and years are approximated as 30 and 365 days.
func ParseDate(s string, today time.Time) (time.Time, error) {
	if s == "today" || s == "now" {
		return DayOf(today), nil
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return DayOf(t), nil
	}

	if m := compactRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, fmt.Errorf("invalid date: %s", s)
		}
		return Date(year, time.Month(month), day), nil
	}

	if m := simpleRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return DayOf(today).AddDate(0, 0, -n*unitDays(m[2])), nil
	}

	if m := anchoredRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[3])
		days := n * unitDays(m[4])
		if m[2] == "-" {
			days = -days
		}
		return DayOf(today).AddDate(0, 0, days), nil
	}

	return time.Time{}, fmt.Errorf("unknown date format: %s", s)
}

func unitDays(unit string) int {
	switch unit {
	case "week":
		return 7
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 1
	}
}

// ParseRange resolves range shorthands like today, lastweek or quarter into
// an inclusive calendar window. Anything unrecognized is retried as a
// relative date spanning from that date to today.
func ParseRange(s string, today time.Time) (models.ActivityWindow, error) {
	day := DayOf(today)
	// Monday-based weekday offset
	weekday := (int(day.Weekday()) + 6) % 7

	switch s {
	case "today":
		return models.ActivityWindow{Since: day, Until: day}, nil
	case "yesterday":
		y := day.AddDate(0, 0, -1)
		return models.ActivityWindow{Since: y, Until: y}, nil
	case "thisweek", "week":
		return models.ActivityWindow{Since: day.AddDate(0, 0, -weekday), Until: day}, nil
	case "lastweek":
		lastMonday := day.AddDate(0, 0, -(weekday + 7))
		return models.ActivityWindow{Since: lastMonday, Until: lastMonday.AddDate(0, 0, 6)}, nil
	case "thismonth", "month":
		return models.ActivityWindow{Since: Date(day.Year(), day.Month(), 1), Until: day}, nil
	case "lastmonth":
		firstOfThis := Date(day.Year(), day.Month(), 1)
		lastOfPrev := firstOfThis.AddDate(0, 0, -1)
		return models.ActivityWindow{Since: Date(lastOfPrev.Year(), lastOfPrev.Month(), 1), Until: lastOfPrev}, nil
	case "quarter":
		quarterMonth := time.Month(((int(day.Month())-1)/3)*3 + 1)
		return models.ActivityWindow{Since: Date(day.Year(), quarterMonth, 1), Until: day}, nil
	case "thisyear", "year":
		return models.ActivityWindow{Since: Date(day.Year(), time.January, 1), Until: day}, nil
	case "lastyear":
		return models.ActivityWindow{
			Since: Date(day.Year()-1, time.January, 1),
			Until: Date(day.Year()-1, time.December, 31),
		}, nil
	}

	since, err := ParseDate(s, today)
	if err != nil {
		return models.ActivityWindow{}, fmt.Errorf("unknown range: %s", s)
	}
	return models.ActivityWindow{Since: since, Until: day}, nil
}
