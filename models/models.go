// Package models defines the core data structures used throughout the application.
package models

import (
	"sort"
	"strings"
	"time"
)

// RepoRef identifies a repository. Identity is FullName ("owner/name").
type RepoRef struct {
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`
	Name     string `json:"name"`
}

// ParseRepoRef builds a RepoRef from an "owner/name" string. When no owner
// is present the provided fallback owner is assumed.
func ParseRepoRef(fullName, fallbackOwner string) RepoRef {
	owner, name, found := strings.Cut(fullName, "/")
	if !found {
		return RepoRef{FullName: fallbackOwner + "/" + fullName, Owner: fallbackOwner, Name: fullName}
	}
	return RepoRef{FullName: fullName, Owner: owner, Name: name}
}

// BranchSet is the set of branch names known to be active for a repository,
// scanned in addition to the default branch. A nil or empty set means
// "default branch only".
type BranchSet map[string]struct{}

// Add inserts a branch name into the set, allocating on first use.
func (s *BranchSet) Add(name string) {
	if *s == nil {
		*s = make(BranchSet)
	}
	(*s)[name] = struct{}{}
}

// Contains reports whether the branch is in the set.
func (s BranchSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the branch names in sorted order.
func (s BranchSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ActivityWindow is an inclusive local calendar date range. Since and Until
// carry only calendar date information (midnight instants); Since <= Until is
// the caller's responsibility and is validated before the pipeline runs.
type ActivityWindow struct {
	Since time.Time
	Until time.Time
}

// Days returns the number of calendar days the window spans, inclusive.
func (w ActivityWindow) Days() int {
	return int(w.Until.Sub(w.Since).Hours()/24) + 1
}

// CommitRecord is one unique commit collected within the window. Timestamp
// is the commit author date resolved to the operator's local zone so that
// downstream day and weekday bucketing reflects the operator's calendar.
type CommitRecord struct {
	SHA          string    `json:"sha"`
	Repo         RepoRef   `json:"repo"`
	AuthorLogin  string    `json:"author_login"`
	AuthorName   string    `json:"author_name"`
	Timestamp    time.Time `json:"timestamp"`
	Additions    int       `json:"additions"`
	Deletions    int       `json:"deletions"`
	MessageTitle string    `json:"message_title"`
	MessageBody  string    `json:"message_body"`
}

// Day returns the commit's local calendar day truncated to midnight.
func (c CommitRecord) Day() time.Time {
	y, m, d := c.Timestamp.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RepoStats aggregates a single repository's contribution in personal mode.
type RepoStats struct {
	Commits  int            `json:"commits"`
	Added    int            `json:"added"`
	Deleted  int            `json:"deleted"`
	Messages []CommitRecord `json:"messages,omitempty"`
}

// RepoBreakdown is a per-repository slice of one contributor's activity.
type RepoBreakdown struct {
	Commits int `json:"commits"`
	Added   int `json:"added"`
	Deleted int `json:"deleted"`
}

// ContributorStats aggregates one contributor's activity in team mode.
type ContributorStats struct {
	Commits  int                       `json:"commits"`
	Added    int                       `json:"added"`
	Deleted  int                       `json:"deleted"`
	Repos    map[string]*RepoBreakdown `json:"repos"`
	Messages []CommitRecord            `json:"messages,omitempty"`
}

// Breakdown returns the contributor's breakdown row for a repository,
// inserting an empty one on first touch.
func (c *ContributorStats) Breakdown(repoFullName string) *RepoBreakdown {
	if c.Repos == nil {
		c.Repos = make(map[string]*RepoBreakdown)
	}
	b, ok := c.Repos[repoFullName]
	if !ok {
		b = &RepoBreakdown{}
		c.Repos[repoFullName] = b
	}
	return b
}

// Streak is the longest run of consecutive calendar days with at least one
// commit.
type Streak struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayHighlight is the single most weighted day by total line changes.
type DayHighlight struct {
	Date    time.Time `json:"date"`
	Commits int       `json:"commits"`
	Changes int       `json:"changes"`
}

// WeekdayHighlight is the weekday with the most summed line changes.
type WeekdayHighlight struct {
	Weekday time.Weekday `json:"weekday"`
	Commits int          `json:"commits"`
	Changes int          `json:"changes"`
}

// RepoHighlight is the most contributed-to repository by commit count.
type RepoHighlight struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// Break is the longest idle gap between two active days, reported as the
// first and last fully idle days.
type Break struct {
	Days  int       `json:"days"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Highlights bundles the derived best-of facts. Absent facts are nil.
type Highlights struct {
	Streak          *Streak           `json:"streak,omitempty"`
	BestDay         *DayHighlight     `json:"best_day,omitempty"`
	FavoriteWeekday *WeekdayHighlight `json:"favorite_weekday,omitempty"`
	BestRepo        *RepoHighlight    `json:"best_repo,omitempty"`
	LongestBreak    *Break            `json:"longest_break,omitempty"`
}

// TeamPortrait profiles when the team works and how large its commits are.
// Histogram indexes are local time: weekday 0=Monday..6=Sunday, hour 0..23.
type TeamPortrait struct {
	WeekdayHist       [7]int  `json:"weekday_hist"`
	HourHist          [24]int `json:"hour_hist"`
	AvgLinesPerCommit float64 `json:"avg_lines_per_commit"`
}

// RepoChampion names a repository and the metric value that crowned it.
type RepoChampion struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// RepoPortrait profiles the repositories touched during a team run.
type RepoPortrait struct {
	GrowthChampion   *RepoChampion `json:"growth_champion,omitempty"`
	RefactorChampion *RepoChampion `json:"refactor_champion,omitempty"`
	SlimmingChampion *RepoChampion `json:"slimming_champion,omitempty"`
	IdleRepos        int           `json:"idle_repos"`
}

// RankingEntry is one contributor's row in a single arena board.
type RankingEntry struct {
	Contributor string  `json:"contributor"`
	Value       float64 `json:"value"`
}

// StreakRankingEntry is one contributor's row in the streak board.
type StreakRankingEntry struct {
	Contributor string `json:"contributor"`
	Streak      Streak `json:"streak"`
}

// ArenaRankings holds every competitive board, each sorted descending by its
// metric. All boards read "more is better", including average commit size.
type ArenaRankings struct {
	Commits       []RankingEntry       `json:"commits"`
	Additions     []RankingEntry       `json:"additions"`
	Deletions     []RankingEntry       `json:"deletions"`
	NetGrowth     []RankingEntry       `json:"net_growth"`
	TotalChanges  []RankingEntry       `json:"total_changes"`
	ActiveRepos   []RankingEntry       `json:"active_repos"`
	ActiveDays    []RankingEntry       `json:"active_days"`
	LongestStreak []StreakRankingEntry `json:"longest_streak"`
	AvgCommitSize []RankingEntry       `json:"avg_commit_size"`
}
