package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ghstats/logger"
)

// RunRecord is the summary row persisted for a finished run.
type RunRecord struct {
	Username     string    `db:"username"`
	Mode         string    `db:"mode"`
	Since        time.Time `db:"since"`
	Until        time.Time `db:"until"`
	TotalCommits int       `db:"total_commits"`
	TotalAdded   int       `db:"total_added"`
	TotalDeleted int       `db:"total_deleted"`
	ActiveRepos  int       `db:"active_repos"`
	ActiveDays   int       `db:"active_days"`
	CreatedAt    time.Time `db:"created_at"`
}

// RepoStatRow is a per-repository breakdown row for a run.
type RepoStatRow struct {
	Repo     string `db:"repo"`
	Messages int    `db:"messages"`
	Added    int    `db:"added"`
	Deleted  int    `db:"deleted"`
}

// ContributorStatRow is a per-contributor breakdown row for a run.
type ContributorStatRow struct {
	Contributor string `db:"contributor"`
	Commits     int    `db:"commits"`
	Added       int    `db:"added"`
	Deleted     int    `db:"deleted"`
}

const (
	insertRunQuery = `
		INSERT INTO runs (username, mode, since, until, total_commits, total_added, total_deleted, active_repos, active_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	insertRepoStatQuery = `
		INSERT INTO run_repo_stats (run_id, repo, messages, added, deleted)
		VALUES ($1, $2, $3, $4, $5)`

	insertContributorStatQuery = `
		INSERT INTO run_contributor_stats (run_id, contributor, commits, added, deleted)
		VALUES ($1, $2, $3, $4, $5)`

	countRunsQuery = `SELECT COUNT(*) FROM runs WHERE username = $1`
)

// CountRuns reports how many runs are already stored for a username.
func (db *DB) CountRuns(ctx context.Context, username string) (int, error) {
	stmt, err := db.getStmt(ctx, countRunsQuery)
	if err != nil {
		return 0, err
	}
	var count int
	if err := stmt.GetContext(ctx, &count, username); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// SaveRun writes the run summary plus its per-repo and per-contributor rows
// in a single transaction and returns the new run id.
func (db *DB) SaveRun(ctx context.Context, run RunRecord, repos []RepoStatRow, contributors []ContributorStatRow) (int64, error) {
	if previous, err := db.CountRuns(ctx, run.Username); err == nil {
		logger.Debug("existing run history", zap.String("username", run.Username), zap.Int("runs", previous))
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	defer tx.Rollback()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	var runID int64
	err = tx.QueryRowContext(ctx, insertRunQuery,
		run.Username, run.Mode, run.Since, run.Until,
		run.TotalCommits, run.TotalAdded, run.TotalDeleted,
		run.ActiveRepos, run.ActiveDays, run.CreatedAt,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("%w: insert run: %v", ErrSaveRunFailed, err)
	}

	repoStmt, err := tx.PreparexContext(ctx, insertRepoStatQuery)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare repo stats: %v", ErrSaveRunFailed, err)
	}
	defer repoStmt.Close()

	for _, row := range repos {
		if _, err := repoStmt.ExecContext(ctx, runID, row.Repo, row.Messages, row.Added, row.Deleted); err != nil {
			return 0, fmt.Errorf("%w: insert repo stats for %s: %v", ErrSaveRunFailed, row.Repo, err)
		}
	}

	contribStmt, err := tx.PreparexContext(ctx, insertContributorStatQuery)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare contributor stats: %v", ErrSaveRunFailed, err)
	}
	defer contribStmt.Close()

	for _, row := range contributors {
		if _, err := contribStmt.ExecContext(ctx, runID, row.Contributor, row.Commits, row.Added, row.Deleted); err != nil {
			return 0, fmt.Errorf("%w: insert contributor stats for %s: %v", ErrSaveRunFailed, row.Contributor, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	logger.Info("run saved",
		zap.Int64("run_id", runID),
		zap.String("username", run.Username),
		zap.Int("repo_rows", len(repos)),
		zap.Int("contributor_rows", len(contributors)))
	return runID, nil
}
