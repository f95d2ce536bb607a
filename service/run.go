package service

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"ghstats/db"
	"ghstats/discovery"
	"ghstats/export"
	"ghstats/logger"
	"ghstats/models"
	"ghstats/render"
	"ghstats/scanner"
	"ghstats/server"
	"ghstats/stats"
	"ghstats/window"
)

// RunOptions carries one run's resolved parameters.
type RunOptions struct {
	// User is the account to scan; empty means the authenticated user.
	User     string
	Personal bool
	Orgs     []string

	Window        models.ActivityWindow
	PersonalLimit int
	OrgLimit      int

	AllBranches  bool
	OrgSummary   bool
	Arena        bool
	ArenaTop     int
	Highlights   bool
	ExcludeNoise bool

	ExportCommits bool
	FullMessage   bool
	OutputPath    string
	JSONOut       bool

	Serve bool
	Port  int

	Save bool

	// Chooser answers the historical fallback prompt. Nil means the
	// interactive terminal prompt.
	Chooser discovery.ChoiceProvider
}

// Run executes one end-to-end statistics run.
func (s *Service) Run(opts RunOptions) error {
	started := time.Now()

	// Auth gate. A bad or expired token fails here, before any listing
	// endpoint can half-succeed on public data.
	login, err := s.client.CurrentUser(s.ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	username := opts.User
	if username == "" {
		username = login
	}
	isSelf := strings.EqualFold(username, login)
	logger.Info("run starting",
		zap.String("login", login),
		zap.String("target", username),
		zap.Bool("self", isSelf),
		zap.String("since", opts.Window.Since.Format("2006-01-02")),
		zap.String("until", opts.Window.Until.Format("2006-01-02")))

	utcStart, utcEnd := window.Normalize(opts.Window, time.Local)

	chooser := opts.Chooser
	if chooser == nil {
		chooser = render.PromptChoice(os.Stdin, s.out)
	}

	repos, branches := discovery.NewResolver(s.client).Resolve(s.ctx, discovery.Options{
		Username:       username,
		IsSelf:         isSelf,
		Personal:       opts.Personal,
		Orgs:           opts.Orgs,
		Window:         opts.Window,
		Today:          window.DayOf(time.Now()),
		UTCStart:       utcStart,
		UTCEnd:         utcEnd,
		EventPages:     s.config.EventPages,
		SearchMaxTotal: s.config.SearchMaxTotal,
		PersonalLimit:  opts.PersonalLimit,
		OrgLimit:       opts.OrgLimit,
		Chooser:        chooser,
	})
	if len(repos) == 0 {
		fmt.Fprintln(s.out, "No repositories with activity found in the window.")
		return nil
	}

	branchSets := branches
	if !opts.AllBranches {
		// Default-branch only; discovered side branches are ignored.
		branchSets = nil
	}

	author := username
	if opts.OrgSummary {
		author = "" // team mode collects every contributor
	}

	result := scanner.NewScanner(s.client).Scan(s.ctx, repos, scanner.Options{
		Author:       author,
		UTCStart:     utcStart,
		UTCEnd:       utcEnd,
		Location:     time.Local,
		Branches:     branchSets,
		ExcludeNoise: opts.ExcludeNoise,
		Workers:      s.config.Workers,
		Progress:     render.Progress,
	})
	render.ProgressDone(fmt.Sprintf("Scanned %d repositories, %d with commits in %s",
		result.TotalRepos, result.ReposWithCommits, time.Since(started).Round(time.Second)))

	if len(result.Records) == 0 {
		fmt.Fprintln(s.out, "No commits found in the window.")
		return nil
	}

	repoStats := stats.FoldRepoStats(result.Records)

	var team map[string]*models.ContributorStats
	var teamPortrait *models.TeamPortrait
	var repoPortrait *models.RepoPortrait
	var arena *models.ArenaRankings
	if opts.OrgSummary {
		team = stats.FoldContributorStats(result.Records)
		teamPortrait = stats.GenerateTeamPortrait(team)
		repoPortrait = stats.GenerateRepoPortrait(team, result.TotalRepos)
		if opts.Arena {
			arena = stats.GenerateArenaRankings(team, opts.ArenaTop)
		}
	}

	var highlights *models.Highlights
	if opts.Highlights {
		highlights = stats.GenerateHighlights(result.Records)
	}

	var payload []byte
	if opts.JSONOut || opts.Serve {
		doc := export.BuildDocument(export.Params{
			User:         username,
			Org:          strings.Join(opts.Orgs, ","),
			Window:       opts.Window,
			GeneratedAt:  time.Now().UTC(),
			RepoStats:    repoStats,
			TeamStats:    team,
			Highlights:   highlights,
			TeamPortrait: teamPortrait,
			RepoPortrait: repoPortrait,
			ArenaTopN:    opts.ArenaTop,
		})
		payload, err = doc.JSON()
		if err != nil {
			return err
		}
	}

	switch {
	case opts.JSONOut && opts.OutputPath != "" && !opts.ExportCommits:
		if err := os.WriteFile(opts.OutputPath, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		fmt.Fprintf(s.out, "Wrote %s\n", opts.OutputPath)
	case opts.JSONOut:
		fmt.Fprintf(s.out, "%s\n", payload)
	case opts.OrgSummary:
		render.PrintTeamTable(s.out, team, opts.Window)
		render.PrintPortrait(s.out, teamPortrait, repoPortrait)
		if highlights != nil {
			render.PrintHighlights(s.out, highlights)
		}
		if arena != nil {
			render.PrintArena(s.out, arena)
		}
	default:
		render.PrintRepoTable(s.out, repoStats, opts.Window)
		if highlights != nil {
			render.PrintHighlights(s.out, highlights)
		}
	}

	if opts.ExportCommits {
		content := export.GenerateMarkdown(repoStats, opts.Window, opts.FullMessage)
		path, err := export.WriteExportFile(content, opts.Window, opts.OutputPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Exported commit report to %s\n", path)
	}

	if opts.Save && s.store != nil {
		if err := s.saveRun(username, opts, repoStats, result.Records); err != nil {
			// Persistence is best-effort; a broken sink never discards a
			// finished run's console output.
			logger.Error("failed to save run", zap.Error(err))
		}
	}

	if opts.Serve {
		return s.serve(opts.Port, payload)
	}
	return nil
}

func (s *Service) serve(port int, payload []byte) error {
	srv := server.New(port, payload)
	bound, err := srv.Listen()
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Dashboard at http://127.0.0.1:%d/ (Ctrl-C to stop)\n", bound)

	go func() {
		<-s.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	return srv.Run(s.ctx)
}

func (s *Service) saveRun(username string, opts RunOptions, repoStats map[string]*models.RepoStats, records []models.CommitRecord) error {
	mode := "personal"
	if opts.OrgSummary {
		mode = "org-summary"
	}

	run := db.RunRecord{
		Username: username,
		Mode:     mode,
		Since:    opts.Window.Since,
		Until:    opts.Window.Until,
	}
	days := make(map[string]struct{})
	for _, record := range records {
		days[record.Day().Format("2006-01-02")] = struct{}{}
	}
	run.ActiveDays = len(days)

	repoNames := make([]string, 0, len(repoStats))
	for name := range repoStats {
		repoNames = append(repoNames, name)
	}
	sort.Strings(repoNames)

	var repoRows []db.RepoStatRow
	for _, name := range repoNames {
		rs := repoStats[name]
		run.TotalCommits += rs.Commits
		run.TotalAdded += rs.Added
		run.TotalDeleted += rs.Deleted
		if rs.Commits > 0 {
			run.ActiveRepos++
			repoRows = append(repoRows, db.RepoStatRow{Repo: name, Messages: rs.Commits, Added: rs.Added, Deleted: rs.Deleted})
		}
	}

	team := stats.FoldContributorStats(records)
	contribNames := make([]string, 0, len(team))
	for name := range team {
		contribNames = append(contribNames, name)
	}
	sort.Strings(contribNames)

	var contribRows []db.ContributorStatRow
	for _, name := range contribNames {
		cs := team[name]
		contribRows = append(contribRows, db.ContributorStatRow{Contributor: name, Commits: cs.Commits, Added: cs.Added, Deleted: cs.Deleted})
	}

	_, err := s.store.SaveRun(s.ctx, run, repoRows, contribRows)
	return err
}
