// Package export renders finished aggregates into the formats consumed
// outside the pipeline: the dashboard JSON document and the Markdown
// activity report. It never touches the network; callers hand it read-only
// aggregates and it hands back bytes.
package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"ghstats/models"
)

// Document is the dashboard payload. Field names follow the wire format the
// web frontend already consumes.
type Document struct {
	Meta       Meta             `json:"meta"`
	Summary    Summary          `json:"summary"`
	Repos      []RepoEntry      `json:"repos"`
	Timeline   []TimelineEntry  `json:"timeline"`
	Highlights *HighlightsDoc   `json:"highlights,omitempty"`
	Portrait   *PortraitDoc     `json:"portrait,omitempty"`
	Arena      []ArenaBoardsRow `json:"arena,omitempty"`
}

// Meta describes the run that produced the document.
type Meta struct {
	User        string    `json:"user"`
	DateRange   DateRange `json:"dateRange"`
	GeneratedAt time.Time `json:"generatedAt"`
	Mode        string    `json:"mode"`
	Org         string    `json:"org,omitempty"`
}

// DateRange is the inclusive calendar window of the run.
type DateRange struct {
	Since string `json:"since"`
	Until string `json:"until"`
}

// Summary carries the run's headline totals.
type Summary struct {
	TotalCommits int `json:"totalCommits"`
	TotalAdded   int `json:"totalAdded"`
	TotalDeleted int `json:"totalDeleted"`
	NetGrowth    int `json:"netGrowth"`
	ActiveDays   int `json:"activeDays"`
	ActiveRepos  int `json:"activeRepos"`
}

// RepoEntry is one repository's totals, sorted by commits descending.
type RepoEntry struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
}

// TimelineEntry is one day's activity.
type TimelineEntry struct {
	Date    string `json:"date"`
	Commits int    `json:"commits"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
}

// HighlightsDoc mirrors models.Highlights in wire form.
type HighlightsDoc struct {
	Streak          *StreakDoc   `json:"streak,omitempty"`
	BestDay         *BestDayDoc  `json:"bestDay,omitempty"`
	FavoriteWeekday *WeekdayDoc  `json:"favoriteWeekday,omitempty"`
	BestRepo        *BestRepoDoc `json:"bestRepo,omitempty"`
	LongestBreak    *StreakDoc   `json:"longestBreak,omitempty"`
}

// StreakDoc spans a range of days (used for both streaks and breaks).
type StreakDoc struct {
	Days  int    `json:"days"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// BestDayDoc is the most weighted day.
type BestDayDoc struct {
	Date    string `json:"date"`
	Commits int    `json:"commits"`
	Changes int    `json:"changes"`
}

// WeekdayDoc is the favorite weekday.
type WeekdayDoc struct {
	Day      string `json:"day"`
	DayIndex int    `json:"dayIndex"`
	Commits  int    `json:"commits"`
	Changes  int    `json:"changes"`
}

// BestRepoDoc is the most committed-to repository.
type BestRepoDoc struct {
	Name    string `json:"name"`
	Commits int    `json:"commits"`
}

// PortraitDoc merges the team portrait and the repo champions.
type PortraitDoc struct {
	WeekdayStats      map[string]int         `json:"weekdayStats"`
	HourStats         map[string]int         `json:"hourStats"`
	AvgLinesPerCommit float64                `json:"avgLinesPerCommit"`
	RepoChampions     map[string]ChampionDoc `json:"repoChampions,omitempty"`
}

// ChampionDoc names a champion repository and its metric value.
type ChampionDoc struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ArenaBoardsRow is one contributor's leaderboard row, ranked by commits
// then additions.
type ArenaBoardsRow struct {
	Rank      int    `json:"rank"`
	User      string `json:"user"`
	Commits   int    `json:"commits"`
	Added     int    `json:"added"`
	Deleted   int    `json:"deleted"`
	NetGrowth int    `json:"netGrowth"`
}

// Params collects everything a document can include. TeamStats being
// non-nil selects org-summary mode; otherwise RepoStats drives personal
// mode.
type Params struct {
	User        string
	Org         string
	Window      models.ActivityWindow
	GeneratedAt time.Time

	RepoStats map[string]*models.RepoStats
	TeamStats map[string]*models.ContributorStats

	Highlights   *models.Highlights
	TeamPortrait *models.TeamPortrait
	RepoPortrait *models.RepoPortrait
	ArenaTopN    int
}

const dateLayout = "2006-01-02"

// BuildDocument assembles the dashboard document from finished aggregates.
func BuildDocument(p Params) *Document {
	doc := &Document{
		Meta: Meta{
			User:        p.User,
			DateRange:   DateRange{Since: p.Window.Since.Format(dateLayout), Until: p.Window.Until.Format(dateLayout)},
			GeneratedAt: p.GeneratedAt,
			Mode:        "personal",
			Org:         p.Org,
		},
	}
	if p.TeamStats != nil {
		doc.Meta.Mode = "org-summary"
		buildTeamSections(doc, p.TeamStats)
		doc.Arena = buildArenaRows(p.TeamStats, p.ArenaTopN)
	} else {
		buildPersonalSections(doc, p.RepoStats)
	}

	doc.Highlights = formatHighlights(p.Highlights)
	doc.Portrait = formatPortrait(p.TeamPortrait, p.RepoPortrait)
	return doc
}

// JSON serializes the document with stable two-space indentation.
func (d *Document) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode stats document: %w", err)
	}
	return out, nil
}

func buildPersonalSections(doc *Document, repoStats map[string]*models.RepoStats) {
	var records []models.CommitRecord
	for name, rs := range repoStats {
		doc.Summary.TotalCommits += rs.Commits
		doc.Summary.TotalAdded += rs.Added
		doc.Summary.TotalDeleted += rs.Deleted
		if rs.Commits > 0 {
			doc.Summary.ActiveRepos++
			doc.Repos = append(doc.Repos, RepoEntry{Name: name, Commits: rs.Commits, Added: rs.Added, Deleted: rs.Deleted})
		}
		records = append(records, rs.Messages...)
	}
	finishSections(doc, records)
}

func buildTeamSections(doc *Document, team map[string]*models.ContributorStats) {
	repoTotals := make(map[string]*RepoEntry)
	var records []models.CommitRecord
	for _, cs := range team {
		doc.Summary.TotalCommits += cs.Commits
		doc.Summary.TotalAdded += cs.Added
		doc.Summary.TotalDeleted += cs.Deleted
		for repoName, b := range cs.Repos {
			entry, ok := repoTotals[repoName]
			if !ok {
				entry = &RepoEntry{Name: repoName}
				repoTotals[repoName] = entry
			}
			entry.Commits += b.Commits
			entry.Added += b.Added
			entry.Deleted += b.Deleted
		}
		records = append(records, cs.Messages...)
	}

	doc.Summary.ActiveRepos = len(repoTotals)
	for _, entry := range repoTotals {
		doc.Repos = append(doc.Repos, *entry)
	}
	finishSections(doc, records)
}

// finishSections fills the shared tail: net growth, active days, repo sort
// order and the per-day timeline.
func finishSections(doc *Document, records []models.CommitRecord) {
	doc.Summary.NetGrowth = doc.Summary.TotalAdded - doc.Summary.TotalDeleted

	sort.Slice(doc.Repos, func(i, j int) bool {
		if doc.Repos[i].Commits != doc.Repos[j].Commits {
			return doc.Repos[i].Commits > doc.Repos[j].Commits
		}
		return doc.Repos[i].Name < doc.Repos[j].Name
	})

	timeline := make(map[string]*TimelineEntry)
	days := make(map[string]struct{})
	for _, record := range records {
		date := record.Day().Format(dateLayout)
		days[date] = struct{}{}
		entry, ok := timeline[date]
		if !ok {
			entry = &TimelineEntry{Date: date}
			timeline[date] = entry
		}
		entry.Commits++
		entry.Added += record.Additions
		entry.Deleted += record.Deletions
	}
	doc.Summary.ActiveDays = len(days)

	doc.Timeline = make([]TimelineEntry, 0, len(timeline))
	for _, entry := range timeline {
		doc.Timeline = append(doc.Timeline, *entry)
	}
	sort.Slice(doc.Timeline, func(i, j int) bool { return doc.Timeline[i].Date < doc.Timeline[j].Date })
}

func formatHighlights(h *models.Highlights) *HighlightsDoc {
	if h == nil {
		return nil
	}
	doc := &HighlightsDoc{}
	if h.Streak != nil {
		doc.Streak = &StreakDoc{
			Days:  h.Streak.Days,
			Start: h.Streak.Start.Format(dateLayout),
			End:   h.Streak.End.Format(dateLayout),
		}
	}
	if h.BestDay != nil {
		doc.BestDay = &BestDayDoc{
			Date:    h.BestDay.Date.Format(dateLayout),
			Commits: h.BestDay.Commits,
			Changes: h.BestDay.Changes,
		}
	}
	if h.FavoriteWeekday != nil {
		doc.FavoriteWeekday = &WeekdayDoc{
			Day:      h.FavoriteWeekday.Weekday.String(),
			DayIndex: (int(h.FavoriteWeekday.Weekday) + 6) % 7,
			Commits:  h.FavoriteWeekday.Commits,
			Changes:  h.FavoriteWeekday.Changes,
		}
	}
	if h.BestRepo != nil {
		doc.BestRepo = &BestRepoDoc{Name: h.BestRepo.Name, Commits: h.BestRepo.Commits}
	}
	if h.LongestBreak != nil {
		doc.LongestBreak = &StreakDoc{
			Days:  h.LongestBreak.Days,
			Start: h.LongestBreak.Start.Format(dateLayout),
			End:   h.LongestBreak.End.Format(dateLayout),
		}
	}
	return doc
}

func formatPortrait(team *models.TeamPortrait, repo *models.RepoPortrait) *PortraitDoc {
	if team == nil && repo == nil {
		return nil
	}
	doc := &PortraitDoc{
		WeekdayStats: make(map[string]int),
		HourStats:    make(map[string]int),
	}
	if team != nil {
		doc.AvgLinesPerCommit = team.AvgLinesPerCommit
		for wd, count := range team.WeekdayHist {
			if count > 0 {
				doc.WeekdayStats[strconv.Itoa(wd)] = count
			}
		}
		for hour, count := range team.HourHist {
			if count > 0 {
				doc.HourStats[strconv.Itoa(hour)] = count
			}
		}
	}
	if repo != nil {
		champions := make(map[string]ChampionDoc)
		if repo.GrowthChampion != nil {
			champions["growth"] = ChampionDoc{Name: repo.GrowthChampion.Name, Value: repo.GrowthChampion.Value}
		}
		if repo.RefactorChampion != nil {
			champions["refactor"] = ChampionDoc{Name: repo.RefactorChampion.Name, Value: repo.RefactorChampion.Value}
		}
		if repo.SlimmingChampion != nil {
			champions["slimming"] = ChampionDoc{Name: repo.SlimmingChampion.Name, Value: repo.SlimmingChampion.Value}
		}
		if len(champions) > 0 {
			doc.RepoChampions = champions
		}
	}
	return doc
}

// buildArenaRows renders the leaderboard rows: contributors ranked by
// commits, then additions, truncated to topN when positive.
func buildArenaRows(team map[string]*models.ContributorStats, topN int) []ArenaBoardsRow {
	names := make([]string, 0, len(team))
	for name := range team {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool {
		a, b := team[names[i]], team[names[j]]
		if a.Commits != b.Commits {
			return a.Commits > b.Commits
		}
		return a.Added > b.Added
	})

	if topN > 0 && len(names) > topN {
		names = names[:topN]
	}

	rows := make([]ArenaBoardsRow, 0, len(names))
	for i, name := range names {
		cs := team[name]
		rows = append(rows, ArenaBoardsRow{
			Rank:      i + 1,
			User:      name,
			Commits:   cs.Commits,
			Added:     cs.Added,
			Deleted:   cs.Deleted,
			NetGrowth: cs.Added - cs.Deleted,
		})
	}
	return rows
}
