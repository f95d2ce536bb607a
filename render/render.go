// Package render prints aggregates to the console. It is a presentation
// collaborator: everything it receives is a read-only snapshot from the
// pipeline.
package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"ghstats/models"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const dateLayout = "2006-01-02"

// PrintRepoTable renders the personal-mode table, most active repos first,
// followed by the summary block.
func PrintRepoTable(w io.Writer, repoStats map[string]*models.RepoStats, window models.ActivityWindow) {
	names := sortedBy(repoStats, func(a, b *models.RepoStats) bool { return a.Commits > b.Commits })

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Repository", "Commits", "Changes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	totalCommits, totalAdded, totalDeleted := 0, 0, 0
	var data [][]string
	for _, name := range names {
		rs := repoStats[name]
		totalCommits += rs.Commits
		totalAdded += rs.Added
		totalDeleted += rs.Deleted
		data = append(data, []string{
			cyan(name),
			fmt.Sprintf("%d", rs.Commits),
			fmt.Sprintf("%s / %s", green(fmt.Sprintf("+%d", rs.Added)), red(fmt.Sprintf("-%d", rs.Deleted))),
		})
	}
	_ = table.Bulk(data)
	_ = table.Render()

	fmt.Fprintf(w, "\n%s\n", bold(fmt.Sprintf("Summary (%s ~ %s):",
		window.Since.Format(dateLayout), window.Until.Format(dateLayout))))
	fmt.Fprintf(w, "  • Active Projects: %s\n", cyan(len(names)))
	fmt.Fprintf(w, "  • Total Commits:   %s\n", cyan(totalCommits))
	fmt.Fprintf(w, "  • Total Growth:    %s lines\n", green(fmt.Sprintf("+%d", totalAdded)))
	fmt.Fprintf(w, "  • Total Cleaning:  %s lines\n", red(fmt.Sprintf("-%d", totalDeleted)))
}

// PrintTeamTable renders the org-summary table, most prolific contributors
// first.
func PrintTeamTable(w io.Writer, team map[string]*models.ContributorStats, window models.ActivityWindow) {
	names := sortedBy(team, func(a, b *models.ContributorStats) bool { return a.Commits > b.Commits })

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Contributor", "Commits", "Added", "Deleted", "Repos"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	totalCommits, totalAdded, totalDeleted := 0, 0, 0
	var data [][]string
	for _, name := range names {
		cs := team[name]
		totalCommits += cs.Commits
		totalAdded += cs.Added
		totalDeleted += cs.Deleted
		data = append(data, []string{
			cyan(name),
			fmt.Sprintf("%d", cs.Commits),
			green(fmt.Sprintf("+%d", cs.Added)),
			red(fmt.Sprintf("-%d", cs.Deleted)),
			fmt.Sprintf("%d", len(cs.Repos)),
		})
	}
	_ = table.Bulk(data)
	_ = table.Render()

	fmt.Fprintf(w, "\n%s\n", bold(fmt.Sprintf("Team Summary (%s ~ %s):",
		window.Since.Format(dateLayout), window.Until.Format(dateLayout))))
	fmt.Fprintf(w, "  • Contributors:    %s\n", cyan(len(names)))
	fmt.Fprintf(w, "  • Total Commits:   %s\n", cyan(totalCommits))
	fmt.Fprintf(w, "  • Total Growth:    %s lines\n", green(fmt.Sprintf("+%d", totalAdded)))
	fmt.Fprintf(w, "  • Total Cleaning:  %s lines\n", red(fmt.Sprintf("-%d", totalDeleted)))
}

// PrintHighlights renders the best-of facts.
func PrintHighlights(w io.Writer, h *models.Highlights) {
	if h == nil {
		return
	}
	fmt.Fprintf(w, "\n%s\n", bold("Highlights"))
	if h.Streak != nil {
		fmt.Fprintf(w, "  🔥 Longest streak:  %s days (%s ~ %s)\n",
			cyan(h.Streak.Days), h.Streak.Start.Format(dateLayout), h.Streak.End.Format(dateLayout))
	}
	if h.BestDay != nil {
		fmt.Fprintf(w, "  🚀 Biggest day:     %s (%d commits, %d lines)\n",
			cyan(h.BestDay.Date.Format(dateLayout)), h.BestDay.Commits, h.BestDay.Changes)
	}
	if h.FavoriteWeekday != nil {
		fmt.Fprintf(w, "  📅 Favorite day:    %s (%d lines over %d commits)\n",
			cyan(h.FavoriteWeekday.Weekday), h.FavoriteWeekday.Changes, h.FavoriteWeekday.Commits)
	}
	if h.BestRepo != nil {
		fmt.Fprintf(w, "  ❤️  Favorite repo:   %s (%d commits)\n", cyan(h.BestRepo.Name), h.BestRepo.Commits)
	}
	if h.LongestBreak != nil {
		fmt.Fprintf(w, "  😴 Longest break:   %s days (%s ~ %s)\n",
			yellow(h.LongestBreak.Days), h.LongestBreak.Start.Format(dateLayout), h.LongestBreak.End.Format(dateLayout))
	}
}

// PrintPortrait renders team working habits and the repo champions.
func PrintPortrait(w io.Writer, team *models.TeamPortrait, repo *models.RepoPortrait) {
	if team != nil {
		fmt.Fprintf(w, "\n%s\n", bold("Team Portrait"))
		fmt.Fprintf(w, "  Busiest weekday: %s\n", cyan(peakWeekday(team.WeekdayHist)))
		fmt.Fprintf(w, "  Busiest hour:    %s:00\n", cyan(peakIndex(team.HourHist[:])))
		fmt.Fprintf(w, "  Avg commit size: %s lines\n", cyan(fmt.Sprintf("%.1f", team.AvgLinesPerCommit)))
	}
	if repo != nil {
		fmt.Fprintf(w, "\n%s\n", bold("Repo Portrait"))
		if repo.GrowthChampion != nil {
			fmt.Fprintf(w, "  🌱 Growth champion:   %s (%s lines)\n",
				cyan(repo.GrowthChampion.Name), green(fmt.Sprintf("%+d", repo.GrowthChampion.Value)))
		}
		if repo.RefactorChampion != nil {
			fmt.Fprintf(w, "  🔧 Refactor champion: %s (%d lines churned)\n",
				cyan(repo.RefactorChampion.Name), repo.RefactorChampion.Value)
		}
		if repo.SlimmingChampion != nil {
			fmt.Fprintf(w, "  ✂️  Slimming champion: %s (%s lines)\n",
				cyan(repo.SlimmingChampion.Name), red(fmt.Sprintf("%d", repo.SlimmingChampion.Value)))
		}
		fmt.Fprintf(w, "  💤 Idle repos:        %d\n", repo.IdleRepos)
	}
}

// PrintArena renders every competitive board.
func PrintArena(w io.Writer, rankings *models.ArenaRankings) {
	if rankings == nil {
		return
	}
	fmt.Fprintf(w, "\n%s\n", bold("⚔️  Arena"))
	printBoard(w, "Commits", rankings.Commits, "%d")
	printBoard(w, "Lines added", rankings.Additions, "+%d")
	printBoard(w, "Lines deleted", rankings.Deletions, "-%d")
	printBoard(w, "Net growth", rankings.NetGrowth, "%+d")
	printBoard(w, "Total changes", rankings.TotalChanges, "%d")
	printBoard(w, "Active repos", rankings.ActiveRepos, "%d")
	printBoard(w, "Active days", rankings.ActiveDays, "%d")

	if len(rankings.LongestStreak) > 0 {
		fmt.Fprintf(w, "\n  %s\n", bold("Longest streak"))
		for i, entry := range rankings.LongestStreak {
			fmt.Fprintf(w, "    %s %s: %d days (%s ~ %s)\n",
				medal(i), cyan(entry.Contributor), entry.Streak.Days,
				entry.Streak.Start.Format(dateLayout), entry.Streak.End.Format(dateLayout))
		}
	}

	if len(rankings.AvgCommitSize) > 0 {
		fmt.Fprintf(w, "\n  %s\n", bold("Average commit size"))
		for i, entry := range rankings.AvgCommitSize {
			fmt.Fprintf(w, "    %s %s: %.1f lines\n", medal(i), cyan(entry.Contributor), entry.Value)
		}
	}
}

func printBoard(w io.Writer, title string, entries []models.RankingEntry, format string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s\n", bold(title))
	for i, entry := range entries {
		fmt.Fprintf(w, "    %s %s: %s\n",
			medal(i), cyan(entry.Contributor), fmt.Sprintf(format, int(entry.Value)))
	}
}

func medal(rank int) string {
	switch rank {
	case 0:
		return "🥇"
	case 1:
		return "🥈"
	case 2:
		return "🥉"
	default:
		return fmt.Sprintf("%2d.", rank+1)
	}
}

func peakWeekday(hist [7]int) string {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	return weekdays[peakIndex(hist[:])]
}

func peakIndex(hist []int) int {
	best := 0
	for i, v := range hist {
		if v > hist[best] {
			best = i
		}
	}
	return best
}

// sortedBy returns map keys sorted by the comparison, name-ascending on
// ties so output is stable.
func sortedBy[V any](m map[string]V, less func(a, b V) bool) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.SliceStable(names, func(i, j int) bool { return less(m[names[i]], m[names[j]]) })
	return names
}
