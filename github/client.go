// Package github implements the host-client capability on top of the GitHub
// REST API. Listing operations page transparently and absorb transport or
// decode failures by returning whatever was gathered so far: discovery and
// collection prefer partial results over aborting a run.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ghstats/logger"
	"ghstats/models"
)

// Commit is one commit as listed from a repository ref.
type Commit struct {
	SHA         string
	AuthorLogin string
	AuthorName  string
	Date        time.Time // committer-reported author date, UTC
	Message     string
}

// FileStat is one file's diff contribution within a commit.
type FileStat struct {
	Path      string
	Additions int
	Deletions int
}

// DiffStats is the per-commit diff summary with file-level detail.
type DiffStats struct {
	Additions int
	Deletions int
	Files     []FileStat
}

// Client wraps the GitHub API client with rate limiting. The search
// endpoint has a far stricter budget than the rest of the API, so it gets
// its own limiter.
type Client struct {
	gh            *github.Client
	limiter       *rate.Limiter
	searchLimiter *rate.Limiter
	pageSize      int
}

// NewClient creates a new GitHub client. rateLimit caps ordinary API
// requests per second; searchDelay spaces out commit-search pages.
func NewClient(token string, rateLimit, pageSize int, searchDelay time.Duration) *Client {
	return &Client{
		gh:            github.NewClient(nil).WithAuthToken(token),
		limiter:       rate.NewLimiter(rate.Limit(rateLimit), 1),
		searchLimiter: rate.NewLimiter(rate.Every(searchDelay), 1),
		pageSize:      pageSize,
	}
}

// CurrentUser resolves the authenticated user's login. Unlike the listing
// operations this is fatal when it fails: without an identity there is no
// run to perform.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("resolve authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// ListUserRepos lists repositories owned by username, most recently pushed
// first. With isSelf the listing goes through the authenticated-user
// endpoint and includes private repositories. limit <= 0 means unlimited.
func (c *Client) ListUserRepos(ctx context.Context, username string, isSelf bool, limit int) []models.RepoRef {
	opts := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: c.pageSize},
	}

	listUser := username
	if isSelf {
		// Empty user selects the authenticated user and private-inclusive listing.
		listUser = ""
	}

	var refs []models.RepoRef
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return refs
		}
		repos, resp, err := c.gh.Repositories.List(ctx, listUser, opts)
		if err != nil {
			logger.Warn("user repo listing aborted, keeping partial results",
				zap.String("user", username), zap.Error(err))
			return refs
		}
		for _, r := range repos {
			refs = append(refs, models.ParseRepoRef(r.GetFullName(), username))
			if limit > 0 && len(refs) >= limit {
				return refs[:limit]
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return refs
}

// ListOrgRepos lists an organization's repositories, most recently pushed
// first. limit <= 0 means unlimited.
func (c *Client) ListOrgRepos(ctx context.Context, org string, limit int) []models.RepoRef {
	opts := &github.RepositoryListByOrgOptions{
		Sort:        "pushed",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: c.pageSize},
	}

	var refs []models.RepoRef
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return refs
		}
		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			logger.Warn("org repo listing aborted, keeping partial results",
				zap.String("org", org), zap.Error(err))
			return refs
		}
		for _, r := range repos {
			refs = append(refs, models.ParseRepoRef(r.GetFullName(), org))
			if limit > 0 && len(refs) >= limit {
				return refs[:limit]
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return refs
}

// ActiveBranches inspects the user's recent push and branch-creation events
// and returns the branches touched per repository. The events API only
// retains a short recent window, so maxPages bounds the lookback.
func (c *Client) ActiveBranches(ctx context.Context, username string, maxPages int) map[string]models.BranchSet {
	active := make(map[string]models.BranchSet)
	opts := &github.ListOptions{PerPage: c.pageSize}

	for page := 1; page <= maxPages; page++ {
		opts.Page = page
		if err := c.limiter.Wait(ctx); err != nil {
			return active
		}
		events, resp, err := c.gh.Activity.ListEventsPerformedByUser(ctx, username, false, opts)
		if err != nil {
			logger.Warn("event listing aborted, keeping partial results",
				zap.String("user", username), zap.Error(err))
			return active
		}

		for _, event := range events {
			repoName := event.GetRepo().GetName()
			if repoName == "" {
				continue
			}
			branch := eventBranch(event)
			if branch == "" {
				continue
			}
			set := active[repoName]
			set.Add(branch)
			active[repoName] = set
		}

		if resp.NextPage == 0 || len(events) < c.pageSize {
			break
		}
	}
	return active
}

// eventBranch extracts the branch a push or branch-creation event touched.
func eventBranch(event *github.Event) string {
	payload, err := event.ParsePayload()
	if err != nil {
		return ""
	}
	switch p := payload.(type) {
	case *github.PushEvent:
		// payload ref looks like refs/heads/main
		if ref := p.GetRef(); strings.HasPrefix(ref, "refs/heads/") {
			return strings.TrimPrefix(ref, "refs/heads/")
		}
	case *github.CreateEvent:
		if p.GetRefType() == "branch" {
			return p.GetRef()
		}
	}
	return ""
}

// SearchCommitRepos discovers repositories through the commit-search
// endpoint for commits authored by username within the UTC bounds. Results
// are capped at maxTotal and each page waits on the search limiter, so this
// is slow by construction.
func (c *Client) SearchCommitRepos(ctx context.Context, username string, utcStart, utcEnd time.Time, maxTotal int) []string {
	query := fmt.Sprintf("author:%s committer-date:%s..%s",
		username, utcStart.Format("2006-01-02"), utcEnd.Format("2006-01-02"))
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: c.pageSize}}

	seen := make(map[string]struct{})
	var repos []string
	fetched := 0

	for {
		if err := c.searchLimiter.Wait(ctx); err != nil {
			return repos
		}
		result, resp, err := c.gh.Search.Commits(ctx, query, opts)
		if err != nil {
			logger.Warn("commit search aborted, keeping partial results",
				zap.String("query", query), zap.Error(err))
			return repos
		}

		for _, hit := range result.Commits {
			fetched++
			full := hit.GetRepository().GetFullName()
			if full == "" {
				continue
			}
			if _, ok := seen[full]; !ok {
				seen[full] = struct{}{}
				repos = append(repos, full)
			}
		}

		if resp.NextPage == 0 || fetched >= maxTotal {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos
}

// ListCommits pages through commits on a ref within the UTC bounds. An
// empty author lists every contributor's commits (team mode); an empty ref
// selects the repository's default branch.
func (c *Client) ListCommits(ctx context.Context, repo models.RepoRef, utcStart, utcEnd time.Time, author, ref string) []Commit {
	opts := &github.CommitsListOptions{
		Author:      author,
		SHA:         ref,
		Since:       utcStart,
		Until:       utcEnd,
		ListOptions: github.ListOptions{PerPage: c.pageSize},
	}

	var commits []Commit
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return commits
		}
		page, resp, err := c.gh.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			logger.Debug("commit listing aborted, keeping partial results",
				zap.String("repo", repo.FullName), zap.String("ref", ref), zap.Error(err))
			return commits
		}
		for _, rc := range page {
			commits = append(commits, Commit{
				SHA:         rc.GetSHA(),
				AuthorLogin: rc.GetAuthor().GetLogin(),
				AuthorName:  rc.GetCommit().GetAuthor().GetName(),
				Date:        rc.GetCommit().GetAuthor().GetDate().Time,
				Message:     rc.GetCommit().GetMessage(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return commits
}

// GetCommitDiffStats fetches a single commit's diff summary, paging through
// the file list so noise filtering sees every file. Unlike the listing
// operations this returns an error: the caller decides how a missing diff
// affects the aggregate.
func (c *Client) GetCommitDiffStats(ctx context.Context, repo models.RepoRef, sha string) (DiffStats, error) {
	opts := &github.ListOptions{PerPage: c.pageSize}
	var stats DiffStats

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return DiffStats{}, fmt.Errorf("rate limiter: %w", err)
		}
		commit, resp, err := c.gh.Repositories.GetCommit(ctx, repo.Owner, repo.Name, sha, opts)
		if err != nil {
			return DiffStats{}, fmt.Errorf("fetch commit %s: %w", sha, err)
		}
		if opts.Page == 0 {
			stats.Additions = commit.GetStats().GetAdditions()
			stats.Deletions = commit.GetStats().GetDeletions()
		}
		for _, f := range commit.Files {
			stats.Files = append(stats.Files, FileStat{
				Path:      f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return stats, nil
}
