// ghstats reports GitHub contribution statistics for a user or an
// organization over a calendar window.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ghstats/logger"
	"ghstats/models"
	"ghstats/service"
	"ghstats/window"
)

type cliFlags struct {
	user          string
	personal      bool
	noPersonal    bool
	orgs          string
	since         string
	until         string
	rangePreset   string
	personalLimit int
	orgLimit      int
	allBranches   bool
	orgSummary    string
	arena         bool
	arenaTop      int
	highlights    bool
	excludeNoise  bool
	exportCommits bool
	fullMessage   bool
	output        string
	jsonOut       bool
	serve         bool
	port          int
	dryRun        bool
	save          bool
	logLevel      string
	logJSON       bool
}

func main() {
	flags := &cliFlags{}

	root := &cobra.Command{
		Use:           "ghstats",
		Short:         "GitHub contribution statistics",
		Long:          "ghstats collects commits across your repositories and organizations and turns them into contribution statistics, highlights and rankings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags)
		},
	}

	f := root.Flags()
	f.StringVar(&flags.user, "user", "", "target GitHub username (defaults to authenticated user)")
	f.BoolVar(&flags.personal, "personal", true, "include personal repos (default)")
	f.BoolVar(&flags.noPersonal, "no-personal", false, "exclude personal repos")
	f.StringVar(&flags.orgs, "orgs", "", "comma-separated organization names")
	f.StringVar(&flags.since, "since", "", "start date (YYYY-MM-DD, YYYYMMDD, or relative like \"today-1week\")")
	f.StringVar(&flags.until, "until", "", "end date (YYYY-MM-DD, YYYYMMDD, or relative like \"today\")")
	f.StringVar(&flags.rangePreset, "range", "", "date range preset (e.g. today, week, 3days)")
	f.IntVar(&flags.personalLimit, "personal-limit", 0, "max personal repos to scan (0=unlimited)")
	f.IntVar(&flags.orgLimit, "org-limit", 0, "max repos per org to scan (0=unlimited)")
	f.BoolVar(&flags.allBranches, "all-branches", false, "scan all active branches instead of just the default branch")
	f.StringVar(&flags.orgSummary, "org-summary", "", "org summary mode: analyze a single organization (mutually exclusive with --orgs)")
	f.BoolVar(&flags.arena, "arena", false, "show competition rankings (requires --org-summary)")
	f.IntVar(&flags.arenaTop, "arena-top", 5, "number of top contributors in arena rankings (0=all)")
	f.BoolVar(&flags.highlights, "highlights", false, "show insights like longest streak and most productive day")
	f.BoolVar(&flags.excludeNoise, "exclude-noise", false, "exclude noisy files like lockfiles and generated artifacts")
	f.BoolVar(&flags.exportCommits, "export-commits", false, "export commit messages to a Markdown file")
	f.BoolVar(&flags.fullMessage, "full-message", false, "include full commit message body in export")
	f.StringVarP(&flags.output, "output", "o", "", "output filename for export")
	f.BoolVar(&flags.jsonOut, "json", false, "print the stats document as JSON instead of tables")
	f.BoolVar(&flags.serve, "serve", false, "serve the local dashboard after the run")
	f.IntVar(&flags.port, "port", 8337, "dashboard port (auto-increments when taken)")
	f.BoolVar(&flags.dryRun, "dry-run", false, "show parameter diagnostics without executing")
	f.BoolVar(&flags.save, "save", false, "persist the run to the history database")
	f.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	f.BoolVar(&flags.logJSON, "log-json", false, "emit logs as JSON")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, flags *cliFlags) error {
	if err := logger.Initialize(flags.logLevel, flags.logJSON); err != nil {
		return err
	}
	defer logger.Sync()

	if flags.noPersonal {
		flags.personal = false
	}

	// A non-default --arena-top implies --arena.
	if cmd.Flags().Changed("arena-top") && !flags.arena {
		flags.arena = true
	}

	orgs := splitOrgs(flags.orgs)
	var violations []string
	if flags.orgSummary != "" && len(orgs) > 0 {
		violations = append(violations, "--org-summary and --orgs are mutually exclusive")
	}
	if flags.arena && flags.orgSummary == "" {
		violations = append(violations, "--arena requires --org-summary")
	}

	win, err := resolveWindow(flags)
	if err != nil {
		violations = append(violations, err.Error())
	} else if win.Until.Before(win.Since) {
		violations = append(violations, fmt.Sprintf("inverted date range: %s is after %s",
			win.Since.Format("2006-01-02"), win.Until.Format("2006-01-02")))
	}

	if flags.dryRun {
		printDiagnostics(cmd, win, violations)
		if len(violations) > 0 {
			return fmt.Errorf("%d validation error(s)", len(violations))
		}
		return nil
	}
	if len(violations) > 0 {
		return fmt.Errorf("%s", strings.Join(violations, "; "))
	}

	svc, err := service.NewService(flags.save)
	if err != nil {
		return err
	}
	defer svc.Close()

	opts := service.RunOptions{
		User:          flags.user,
		Personal:      flags.personal,
		Orgs:          orgs,
		Window:        win,
		PersonalLimit: flags.personalLimit,
		OrgLimit:      flags.orgLimit,
		AllBranches:   flags.allBranches,
		Arena:         flags.arena,
		ArenaTop:      flags.arenaTop,
		Highlights:    flags.highlights,
		ExcludeNoise:  flags.excludeNoise,
		ExportCommits: flags.exportCommits,
		FullMessage:   flags.fullMessage,
		OutputPath:    flags.output,
		JSONOut:       flags.jsonOut,
		Serve:         flags.serve,
		Port:          flags.port,
		Save:          flags.save,
	}
	if flags.orgSummary != "" {
		opts.OrgSummary = true
		opts.Orgs = []string{flags.orgSummary}
		opts.Personal = false
	}

	return svc.Run(opts)
}

func splitOrgs(s string) []string {
	var orgs []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			orgs = append(orgs, trimmed)
		}
	}
	return orgs
}

// resolveWindow turns the date flags into a calendar window. A range preset
// wins over explicit dates; unset dates default to today.
func resolveWindow(flags *cliFlags) (models.ActivityWindow, error) {
	today := window.DayOf(time.Now())

	if flags.rangePreset != "" {
		return window.ParseRange(flags.rangePreset, today)
	}

	win := models.ActivityWindow{Since: today, Until: today}
	var err error
	if flags.since != "" {
		if win.Since, err = window.ParseDate(flags.since, today); err != nil {
			return win, fmt.Errorf("invalid --since: %w", err)
		}
	}
	if flags.until != "" {
		if win.Until, err = window.ParseDate(flags.until, today); err != nil {
			return win, fmt.Errorf("invalid --until: %w", err)
		}
	}
	return win, nil
}

func printDiagnostics(cmd *cobra.Command, win models.ActivityWindow, violations []string) {
	fmt.Println("=== DRY RUN DIAGNOSTICS ===")
	fmt.Println()
	fmt.Println("[Parameters]")

	var names []string
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		names = append(names, f.Name)
	})
	sort.Strings(names)
	for _, name := range names {
		f := cmd.Flags().Lookup(name)
		source := "default"
		if f.Changed {
			source = "user"
		}
		fmt.Printf("  --%s: %s (%s)\n", f.Name, f.Value.String(), source)
	}

	fmt.Println()
	fmt.Printf("[Resolved Window]\n  %s to %s (%d days)\n",
		win.Since.Format("2006-01-02"), win.Until.Format("2006-01-02"), win.Days())

	fmt.Println()
	fmt.Println("[Violations]")
	if len(violations) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, v := range violations {
			fmt.Printf("  - %s\n", v)
		}
	}
}
