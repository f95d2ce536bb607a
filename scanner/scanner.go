// Package scanner collects commits from the resolved repositories within
// the normalized window, deduplicating across branch refs and resolving
// per-commit diff statistics.
package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ghstats/github"
	"ghstats/logger"
	"ghstats/models"
	"ghstats/noise"
)

// HostClient abstracts the host operations the scanner needs (for testability).
type HostClient interface {
	ListCommits(ctx context.Context, repo models.RepoRef, utcStart, utcEnd time.Time, author, ref string) []github.Commit
	GetCommitDiffStats(ctx context.Context, repo models.RepoRef, sha string) (github.DiffStats, error)
}

// ProgressFunc receives incremental scan progress for console display.
type ProgressFunc func(done, total int, repo, status string)

// Options configures a collection run.
type Options struct {
	// Author filters commits to one login. Empty collects every
	// contributor's commits (team mode).
	Author string

	UTCStart time.Time
	UTCEnd   time.Time

	// Location is the operator's timezone; commit timestamps are resolved
	// into it before day and weekday bucketing.
	Location *time.Location

	// Branches maps repo full names to their active branch sets. Repos
	// absent from the map are scanned on the default branch only.
	Branches map[string]models.BranchSet

	ExcludeNoise bool
	Workers      int
	Progress     ProgressFunc
}

// Result is the collector's output, consumed by the stats aggregator.
type Result struct {
	// Records holds every unique commit, grouped by repository in the
	// order repositories were scanned.
	Records          []models.CommitRecord
	TotalRepos       int
	ReposWithCommits int
}

// Scanner fans repositories out over a bounded worker pool. Pagination
// within one ref stays sequential; only whole repositories run concurrently,
// and each worker owns its partial result until the final merge.
type Scanner struct {
	client HostClient
}

// NewScanner creates a scanner over the given host client.
func NewScanner(client HostClient) *Scanner {
	return &Scanner{client: client}
}

// Scan collects commit records from every repository. Cancelling ctx stops
// in-flight work; whatever was already collected is still merged and
// returned rather than discarded.
func (s *Scanner) Scan(ctx context.Context, repos []models.RepoRef, opts Options) *Result {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	partials := make([][]models.CommitRecord, len(repos))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if opts.Progress != nil {
				opts.Progress(int(done.Load()), len(repos), repo.FullName, "checking...")
			}
			records := s.scanRepo(gctx, repo, opts)
			partials[i] = records
			n := done.Add(1)
			if opts.Progress != nil {
				status := ""
				if len(records) > 0 {
					status = fmt.Sprintf("found %d commits", len(records))
				}
				opts.Progress(int(n), len(repos), repo.FullName, status)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{TotalRepos: len(repos)}
	for _, records := range partials {
		if len(records) > 0 {
			result.ReposWithCommits++
			result.Records = append(result.Records, records...)
		}
	}

	logger.Info("scan complete",
		zap.Int("repos", result.TotalRepos),
		zap.Int("repos_with_commits", result.ReposWithCommits),
		zap.Int("commits", len(result.Records)))
	return result
}

// scanRepo collects one repository's unique commits across its refs.
func (s *Scanner) scanRepo(ctx context.Context, repo models.RepoRef, opts Options) []models.CommitRecord {
	// The empty ref selects the default branch; active branches are
	// scanned in addition to it.
	refs := []string{""}
	refs = append(refs, opts.Branches[repo.FullName].Names()...)

	seen := make(map[string]struct{})
	var unique []github.Commit

	for _, ref := range refs {
		if ctx.Err() != nil {
			break
		}
		for _, commit := range s.client.ListCommits(ctx, repo, opts.UTCStart, opts.UTCEnd, opts.Author, ref) {
			if _, ok := seen[commit.SHA]; ok {
				continue
			}
			seen[commit.SHA] = struct{}{}
			unique = append(unique, commit)
		}
	}

	records := make([]models.CommitRecord, 0, len(unique))
	for _, commit := range unique {
		if ctx.Err() != nil {
			break
		}
		added, deleted := s.resolveDiff(ctx, repo, commit.SHA, opts.ExcludeNoise)
		title, body := splitMessage(commit.Message)
		records = append(records, models.CommitRecord{
			SHA:          commit.SHA,
			Repo:         repo,
			AuthorLogin:  commit.AuthorLogin,
			AuthorName:   commit.AuthorName,
			Timestamp:    commit.Date.In(opts.Location),
			Additions:    added,
			Deletions:    deleted,
			MessageTitle: title,
			MessageBody:  body,
		})
	}
	return records
}

// resolveDiff fetches a commit's line totals. A failed fetch yields (0,0);
// the commit still counts toward totals.
func (s *Scanner) resolveDiff(ctx context.Context, repo models.RepoRef, sha string, excludeNoise bool) (added, deleted int) {
	stats, err := s.client.GetCommitDiffStats(ctx, repo, sha)
	if err != nil {
		logger.Debug("diff stats unavailable, counting commit with zero changes",
			zap.String("repo", repo.FullName), zap.String("sha", sha), zap.Error(err))
		return 0, 0
	}
	if !excludeNoise {
		return stats.Additions, stats.Deletions
	}
	for _, f := range stats.Files {
		if noise.IsNoise(f.Path) {
			continue
		}
		added += f.Additions
		deleted += f.Deletions
	}
	return added, deleted
}

// splitMessage separates a commit message into its title line and body.
func splitMessage(message string) (title, body string) {
	title, body, _ = strings.Cut(message, "\n")
	return strings.TrimSpace(title), strings.TrimSpace(body)
}
