// Package discovery determines which repositories and branches a run must
// scan to be confident the resulting statistics are complete.
package discovery

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"ghstats/logger"
	"ghstats/models"
)

// FallbackThresholdDays is how far back the events API can be trusted.
// Windows reaching beyond it trigger the historical fallback tier.
const FallbackThresholdDays = 90

// HostClient abstracts the host operations discovery needs (for testability).
type HostClient interface {
	ListUserRepos(ctx context.Context, username string, isSelf bool, limit int) []models.RepoRef
	ListOrgRepos(ctx context.Context, org string, limit int) []models.RepoRef
	ActiveBranches(ctx context.Context, username string, maxPages int) map[string]models.BranchSet
	SearchCommitRepos(ctx context.Context, username string, utcStart, utcEnd time.Time, maxTotal int) []string
}

// ChoiceKind selects the historical fallback strategy.
type ChoiceKind int

const (
	// ChoiceSkip keeps only what the precision tier found.
	ChoiceSkip ChoiceKind = iota
	// ChoiceAll bulk-lists every remaining repository.
	ChoiceAll
	// ChoiceLimit bulk-lists up to Limit repositories per source.
	ChoiceLimit
	// ChoiceDeepSearch discovers repositories via the commit-search endpoint.
	ChoiceDeepSearch
)

// Choice is the operator's answer to the historical fallback prompt.
type Choice struct {
	Kind  ChoiceKind
	Limit int
}

// PromptContext is what a ChoiceProvider gets to show the operator.
type PromptContext struct {
	Window     models.ActivityWindow
	DaysBack   int
	KnownRepos int
}

// ChoiceProvider supplies the fallback decision. Injecting it keeps the
// resolver free of terminal I/O.
type ChoiceProvider func(PromptContext) Choice

// SkipFallback is a ChoiceProvider that always keeps tier-1 results only.
func SkipFallback(PromptContext) Choice { return Choice{Kind: ChoiceSkip} }

// Options configures a discovery run.
type Options struct {
	Username string
	IsSelf   bool
	Personal bool
	Orgs     []string

	Window   models.ActivityWindow
	Today    time.Time
	UTCStart time.Time
	UTCEnd   time.Time

	EventPages     int
	SearchMaxTotal int
	PersonalLimit  int
	OrgLimit       int

	Chooser ChoiceProvider
}

// Resolver accumulates the candidate (repository, branch-set) pairs. Tiers
// only ever add repositories; nothing discovered is removed later.
type Resolver struct {
	client HostClient
}

// NewResolver creates a resolver over the given host client.
func NewResolver(client HostClient) *Resolver {
	return &Resolver{client: client}
}

// Resolve runs the tiered discovery strategy and returns the repositories to
// scan plus the active-branch map keyed by repo full name. Repositories
// absent from the map are scanned on their default branch only.
func (r *Resolver) Resolve(ctx context.Context, opts Options) ([]models.RepoRef, map[string]models.BranchSet) {
	if opts.Chooser == nil {
		opts.Chooser = SkipFallback
	}

	// Scanning another user without an org filter can only ever see their
	// public personal repos, so a personal=false request is self-defeating.
	if !opts.IsSelf && len(opts.Orgs) == 0 && !opts.Personal {
		logger.Warn("scanning another user without orgs implies personal repos, enabling them",
			zap.String("user", opts.Username))
		opts.Personal = true
	}

	set := newRepoSet()

	// Tier 1: recent activity events, authoritative for branches.
	branches := r.client.ActiveBranches(ctx, opts.Username, opts.EventPages)
	logger.Info("precision tier complete", zap.Int("repos_with_activity", len(branches)))

	for _, fullName := range sortedKeys(branches) {
		ref := models.ParseRepoRef(fullName, opts.Username)
		if includeRepo(ref.Owner, opts) {
			set.add(ref)
		}
	}

	// Events cannot reveal another user's activity inside private org repos,
	// so with an org filter those are listed directly.
	if !opts.IsSelf && len(opts.Orgs) > 0 {
		for _, org := range opts.Orgs {
			for _, ref := range r.client.ListOrgRepos(ctx, org, opts.OrgLimit) {
				set.add(ref)
			}
		}
		logger.Info("org listing complete", zap.Int("repos", set.len()))
	}

	// Tier 3: historical fallback when the window outruns event coverage.
	daysBack := int(opts.Today.Sub(opts.Window.Since).Hours() / 24)
	if daysBack > FallbackThresholdDays {
		r.runFallback(ctx, opts, set, daysBack)
	} else {
		logger.Debug("window within event coverage, no fallback needed",
			zap.Int("days_back", daysBack))
	}

	return set.ordered, branches
}

func (r *Resolver) runFallback(ctx context.Context, opts Options, set *repoSet, daysBack int) {
	choice := opts.Chooser(PromptContext{
		Window:     opts.Window,
		DaysBack:   daysBack,
		KnownRepos: set.len(),
	})

	switch choice.Kind {
	case ChoiceSkip:
		logger.Info("historical fallback skipped", zap.Int("repos", set.len()))

	case ChoiceDeepSearch:
		found := r.client.SearchCommitRepos(ctx, opts.Username, opts.UTCStart, opts.UTCEnd, opts.SearchMaxTotal)
		matched := 0
		for _, fullName := range found {
			ref := models.ParseRepoRef(fullName, opts.Username)
			if includeRepo(ref.Owner, opts) {
				set.add(ref)
				matched++
			}
		}
		logger.Info("deep search complete",
			zap.Int("found", len(found)), zap.Int("matched", matched))

	case ChoiceAll, ChoiceLimit:
		// The flag-level caps bound the bulk listings; an explicit
		// interactive limit overrides both.
		personalLimit, orgLimit := opts.PersonalLimit, opts.OrgLimit
		if choice.Kind == ChoiceLimit && choice.Limit > 0 {
			personalLimit, orgLimit = choice.Limit, choice.Limit
		}
		if opts.Personal {
			for _, ref := range r.client.ListUserRepos(ctx, opts.Username, opts.IsSelf, personalLimit) {
				set.add(ref)
			}
		}
		for _, org := range opts.Orgs {
			for _, ref := range r.client.ListOrgRepos(ctx, org, orgLimit) {
				set.add(ref)
			}
		}
		logger.Info("bulk listing complete", zap.Int("repos", set.len()))
	}
}

// includeRepo is the single filter predicate shared by the precision tier
// and deep search.
func includeRepo(owner string, opts Options) bool {
	if !opts.IsSelf && len(opts.Orgs) == 0 {
		return true
	}
	if opts.Personal && owner == opts.Username {
		return true
	}
	for _, org := range opts.Orgs {
		if owner == org {
			return true
		}
	}
	return false
}

// repoSet deduplicates by full name while preserving insertion order.
type repoSet struct {
	seen    map[string]struct{}
	ordered []models.RepoRef
}

func newRepoSet() *repoSet {
	return &repoSet{seen: make(map[string]struct{})}
}

func (s *repoSet) add(ref models.RepoRef) {
	if _, ok := s.seen[ref.FullName]; ok {
		return
	}
	s.seen[ref.FullName] = struct{}{}
	s.ordered = append(s.ordered, ref)
}

func (s *repoSet) len() int { return len(s.ordered) }

func sortedKeys(m map[string]models.BranchSet) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
