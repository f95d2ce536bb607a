// Package stats folds collected commit records into per-repository and
// per-contributor aggregates and derives streaks, highlights, portraits and
// arena rankings. Everything here is pure: no I/O, no clock, no ambient
// state.
package stats

import (
	"sort"
	"time"

	"ghstats/models"
)

// Contributor resolves who a commit is attributed to: the resolved login,
// or the raw committer name when the host could not resolve one.
func Contributor(record models.CommitRecord) string {
	if record.AuthorLogin != "" {
		return record.AuthorLogin
	}
	return record.AuthorName
}

// FoldRepoStats accumulates records into per-repository stats (personal
// mode). Each record lands exactly once: the collector already deduplicated
// by sha within a repo.
func FoldRepoStats(records []models.CommitRecord) map[string]*models.RepoStats {
	folded := make(map[string]*models.RepoStats)
	for _, record := range records {
		rs, ok := folded[record.Repo.FullName]
		if !ok {
			rs = &models.RepoStats{}
			folded[record.Repo.FullName] = rs
		}
		rs.Commits++
		rs.Added += record.Additions
		rs.Deleted += record.Deletions
		rs.Messages = append(rs.Messages, record)
	}
	return folded
}

// FoldContributorStats accumulates records into per-contributor stats with
// per-repository breakdowns (team mode).
func FoldContributorStats(records []models.CommitRecord) map[string]*models.ContributorStats {
	folded := make(map[string]*models.ContributorStats)
	for _, record := range records {
		who := Contributor(record)
		cs, ok := folded[who]
		if !ok {
			cs = &models.ContributorStats{}
			folded[who] = cs
		}
		cs.Commits++
		cs.Added += record.Additions
		cs.Deleted += record.Deletions
		cs.Messages = append(cs.Messages, record)

		b := cs.Breakdown(record.Repo.FullName)
		b.Commits++
		b.Added += record.Additions
		b.Deleted += record.Deletions
	}
	return folded
}

// uniqueDays returns the distinct local calendar days present in the
// records, ascending.
func uniqueDays(records []models.CommitRecord) []time.Time {
	seen := make(map[time.Time]struct{})
	for _, record := range records {
		seen[record.Day()] = struct{}{}
	}
	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// mondayWeekday maps a local timestamp to a Monday-based weekday index
// (0=Monday .. 6=Sunday).
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// sortedNames returns map keys in ascending order, the deterministic
// iteration base for every ranking and tie-break below.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
