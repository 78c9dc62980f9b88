package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jzhao-dev/reposcout/internal/match"
	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
)

// Searcher is the repository-search collaborator. targetCount is
// cumulative: callers re-invoke with a growing count and the collaborator
// returns its best "first N" so far.
type Searcher interface {
	Search(ctx context.Context, keywords []string, targetCount int) ([]models.CandidateRepo, error)
}

// MetricsFetcher is the activity-metrics collaborator. A repository
// without metrics is an expected condition reported via an error for
// which IsNotFound returns true; anything else is treated as transient.
type MetricsFetcher interface {
	Fetch(ctx context.Context, repoID string) (models.RepoMetrics, error)
}

// ProfileSource supplies a cached profile when the caller passes none.
type ProfileSource interface {
	LoadLatest(ctx context.Context) (*models.UserProfile, error)
}

// notFoundReporter is implemented by collaborator errors that represent
// "no data for this repository" rather than a transient failure.
type notFoundReporter interface {
	NotFound() bool
}

// IsNotFound reports whether err (anywhere in its chain) marks an
// expected not-found condition.
func IsNotFound(err error) bool {
	var nf notFoundReporter
	return errors.As(err, &nf) && nf.NotFound()
}

// Deps wires a Coordinator. Searcher, Fetcher, and Scorer are required;
// the rest are optional.
type Deps struct {
	Searcher   Searcher
	Fetcher    MetricsFetcher
	Scorer     *match.Scorer
	Profiles   ProfileSource
	Logger     *slog.Logger
	Stats      *metrics.Collector
	OnProgress func(Event)
}

// Coordinator runs single- and multi-round searches against the
// collaborators. It holds no mutable state between calls; use one
// instance per concurrent caller if collaborators are not shareable.
type Coordinator struct {
	searcher   Searcher
	fetcher    MetricsFetcher
	scorer     *match.Scorer
	profiles   ProfileSource
	logger     *slog.Logger
	stats      *metrics.Collector
	onProgress func(Event)
}

// NewCoordinator creates a coordinator from its dependencies.
func NewCoordinator(deps Deps) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	scorer := deps.Scorer
	if scorer == nil {
		scorer = match.NewScorer(match.DefaultConfig(), logger)
	}
	return &Coordinator{
		searcher:   deps.Searcher,
		fetcher:    deps.Fetcher,
		scorer:     scorer,
		profiles:   deps.Profiles,
		logger:     logger,
		stats:      deps.Stats,
		onProgress: deps.OnProgress,
	}
}

// gatherState accumulates one search run. Appends happen only after a
// successful metrics fetch, so a failing candidate never corrupts what
// was already collected.
type gatherState struct {
	qualified []models.IntegratedRepoResult
	seen      map[string]struct{}
	checked   int
	skipped   int
	skips     []models.CandidateSkip
}

func newGatherState() *gatherState {
	return &gatherState{seen: make(map[string]struct{})}
}

func (g *gatherState) skip(repoID string, reason models.SkipReason) {
	g.skipped++
	g.skips = append(g.skips, models.CandidateSkip{RepoID: repoID, Reason: reason})
}

// SearchWithMetrics runs one keyword round: it repeatedly asks the search
// collaborator for candidates and qualifies each through the metrics
// collaborator until the target is met, the candidates are exhausted, or
// the iteration budget runs out. Failures never abort the run; they are
// folded into the returned counters and message.
func (c *Coordinator) SearchWithMetrics(ctx context.Context, keywords []string, opts Options) models.IntegratedSearchResult {
	opts = opts.withDefaults()

	if len(keywords) == 0 {
		return models.IntegratedSearchResult{
			TargetCount:  opts.TargetCount,
			IsSufficient: false,
			Message:      "no search keywords provided",
		}
	}

	if c.stats != nil {
		defer c.stats.Time(metrics.OpSearchRound)()
	}

	state := newGatherState()
	c.gather(ctx, keywords, opts.TargetCount, opts, state)

	sufficient := len(state.qualified) >= opts.TargetCount
	return models.IntegratedSearchResult{
		SearchKeywords: keywords,
		Repositories:   state.qualified,
		TargetCount:    opts.TargetCount,
		IsSufficient:   sufficient,
		Message:        roundMessage(sufficient, len(state.qualified), opts.TargetCount, state.checked, state.skipped),
		ReposChecked:   state.checked,
		ValidCount:     len(state.qualified),
		SkippedCount:   state.skipped,
		Skips:          state.skips,
	}
}

// gather is the single-round collection loop shared by both entry points.
func (c *Coordinator) gather(ctx context.Context, keywords []string, target int, opts Options, state *gatherState) {
	for iteration := 0; len(state.qualified) < target && iteration < opts.MaxIterations; iteration++ {
		if ctx.Err() != nil {
			c.logger.Info("search cancelled", "keywords", keywords)
			return
		}

		gap := target - len(state.qualified)
		// Over-request because a fraction of candidates lacks metrics.
		request := gap * opts.RequestMultiplier
		if request < opts.BatchSize {
			request = opts.BatchSize
		}

		candidates, err := c.searcher.Search(ctx, keywords, len(state.seen)+request)
		if err != nil {
			c.logger.Warn("search collaborator failed", "keywords", keywords, "error", err)
			return
		}
		if len(candidates) == 0 {
			c.logger.Debug("search exhausted: no results", "keywords", keywords)
			return
		}

		fresh := candidates[:0:0]
		for _, cand := range candidates {
			if _, ok := state.seen[cand.RepoID]; !ok {
				fresh = append(fresh, cand)
			}
		}
		if len(fresh) == 0 {
			c.logger.Debug("search exhausted: no new results", "keywords", keywords)
			return
		}

		for _, cand := range fresh {
			if len(state.qualified) >= target {
				break
			}
			if ctx.Err() != nil {
				return
			}
			c.checkCandidate(ctx, cand, target, state)
		}
	}
}

// checkCandidate qualifies one candidate: marks it seen, fetches metrics,
// and appends on success. Failure of any kind only increments a counter.
func (c *Coordinator) checkCandidate(ctx context.Context, cand models.CandidateRepo, target int, state *gatherState) {
	state.seen[cand.RepoID] = struct{}{}

	if !cand.Valid() {
		state.skip(cand.RepoID, models.SkipMalformed)
		if c.stats != nil {
			c.stats.Add(metrics.CounterReposSkipped, 1)
		}
		c.logger.Debug("dropping malformed candidate", "repo", cand.RepoID)
		return
	}

	state.checked++
	c.emit(Event{Kind: EventRepoChecked, RepoID: cand.RepoID, Qualified: len(state.qualified), Target: target, Checked: state.checked, Skipped: state.skipped})

	repoMetrics, err := c.fetcher.Fetch(ctx, cand.RepoID)
	if err != nil {
		reason := models.SkipTransient
		if IsNotFound(err) {
			reason = models.SkipNoMetrics
			c.logger.Debug("no metrics for candidate", "repo", cand.RepoID)
		} else {
			c.logger.Warn("metrics fetch failed", "repo", cand.RepoID, "error", err)
		}
		state.skip(cand.RepoID, reason)
		if c.stats != nil {
			c.stats.Add(metrics.CounterReposSkipped, 1)
		}
		return
	}

	state.qualified = append(state.qualified, integratedResult(cand, repoMetrics))
	if c.stats != nil {
		c.stats.Add(metrics.CounterReposAccepted, 1)
	}
	c.emit(Event{Kind: EventRepoAccepted, RepoID: cand.RepoID, Qualified: len(state.qualified), Target: target, Checked: state.checked, Skipped: state.skipped})
}

// SearchWithProfile runs the multi-round profile search: keyword
// combinations derived from the profile's skills drive repeated rounds
// until the unique pool reaches PoolFactor×target or the round budget is
// spent, then every pooled repository is scored and the top target-count
// results are returned.
//
// A nil profile is resolved through the ProfileSource; if none is
// available the result reports insufficiency with an explanatory message
// rather than returning an error, keeping the search API uniform.
func (c *Coordinator) SearchWithProfile(ctx context.Context, profile *models.UserProfile, opts Options) models.IntegratedSearchResult {
	opts = opts.withDefaults()

	if c.stats != nil {
		defer c.stats.Time(metrics.OpSearchSession)()
	}

	profile, failure := c.resolveProfile(ctx, profile, opts)
	if failure != nil {
		return *failure
	}

	combos := Combinations(profile.Skills, opts.MinCombinationSize, opts.MaxCombinationSize)
	totalRounds := len(combos)
	if totalRounds > opts.MaxRounds {
		totalRounds = opts.MaxRounds
	}
	c.logger.Info("starting profile search",
		"skills", profile.Skills,
		"target", opts.TargetCount,
		"combinations", len(combos),
		"rounds", totalRounds,
	)

	pool := make(map[string]models.IntegratedRepoResult)
	var poolOrder []string
	var checked, skipped, rounds int
	var skips []models.CandidateSkip
	poolTarget := opts.TargetCount * opts.PoolFactor

	for i, combo := range combos {
		if i >= opts.MaxRounds {
			break
		}
		if ctx.Err() != nil {
			break
		}
		rounds++

		c.emit(Event{Kind: EventRoundStarted, Round: rounds, TotalRounds: totalRounds, Keywords: combo, Qualified: len(pool), Target: poolTarget, Checked: checked, Skipped: skipped})

		gap := poolTarget - len(pool)
		if gap < opts.RoundTargetFloor {
			gap = opts.RoundTargetFloor
		}
		roundOpts := Options{
			TargetCount:       gap,
			MaxIterations:     opts.RoundIterations,
			BatchSize:         opts.RoundBatchSize,
			RequestMultiplier: opts.RequestMultiplier,
		}

		round := c.SearchWithMetrics(ctx, combo, roundOpts)
		added := 0
		for _, repo := range round.Repositories {
			if _, dup := pool[repo.RepoID]; dup {
				continue
			}
			pool[repo.RepoID] = repo
			poolOrder = append(poolOrder, repo.RepoID)
			added++
		}
		checked += round.ReposChecked
		skipped += round.SkippedCount
		skips = append(skips, round.Skips...)

		c.logger.Debug("round finished", "round", rounds, "keywords", combo, "added", added, "pool", len(pool))

		if len(pool) >= poolTarget {
			c.logger.Debug("pool target reached, moving to scoring", "pool", len(pool))
			break
		}
	}

	c.emit(Event{Kind: EventScoring, Qualified: len(pool), Target: opts.TargetCount, Checked: checked, Skipped: skipped})

	final := c.scorePool(*profile, pool, poolOrder, opts.TargetCount)
	sufficient := len(final) >= opts.TargetCount

	result := models.IntegratedSearchResult{
		SearchKeywords:    profile.Skills,
		Repositories:      final,
		TargetCount:       opts.TargetCount,
		IsSufficient:      sufficient,
		Message:           profileMessage(sufficient, len(final), opts.TargetCount, rounds, checked),
		ReposChecked:      checked,
		ValidCount:        len(pool),
		SkippedCount:      skipped,
		Skips:             skips,
		RoundsRun:         rounds,
		CombinationsTried: totalRounds,
	}

	c.emit(Event{Kind: EventDone, Qualified: len(final), Target: opts.TargetCount, Checked: checked, Skipped: skipped})
	c.logger.Info("profile search complete", "found", len(final), "sufficient", sufficient, "checked", checked, "skipped", skipped)
	return result
}

// resolveProfile applies the explicit-argument-over-cached-profile policy
// and produces the uniform failure results for missing or empty profiles.
func (c *Coordinator) resolveProfile(ctx context.Context, profile *models.UserProfile, opts Options) (*models.UserProfile, *models.IntegratedSearchResult) {
	if profile == nil {
		if c.profiles == nil {
			return nil, insufficient(opts.TargetCount, "no user profile provided and no profile source configured")
		}
		loaded, err := c.profiles.LoadLatest(ctx)
		if err != nil {
			c.logger.Warn("loading cached profile failed", "error", err)
			return nil, insufficient(opts.TargetCount, fmt.Sprintf("no user profile available: %v", err))
		}
		if loaded == nil {
			return nil, insufficient(opts.TargetCount, "no user profile found; create a profile first")
		}
		profile = loaded
	}

	if !profile.HasSkills() {
		return nil, insufficient(opts.TargetCount, "user profile has no skills defined")
	}
	return profile, nil
}

// scorePool scores every unique candidate, sorts descending (stable), and
// truncates to the target count.
func (c *Coordinator) scorePool(profile models.UserProfile, pool map[string]models.IntegratedRepoResult, order []string, target int) []models.IntegratedRepoResult {
	var start time.Time
	if c.stats != nil {
		start = time.Now()
	}

	repos := make([]models.RepoMetrics, 0, len(order))
	for _, id := range order {
		m := pool[id].Metrics
		// Join ranked results back by repo id. Collaborator full names are
		// not guaranteed unique or equal to the id.
		m.FullName = id
		repos = append(repos, m)
	}

	ranked := c.scorer.CalculateBatch(profile, repos)

	out := make([]models.IntegratedRepoResult, 0, len(ranked))
	for _, r := range ranked {
		entry, ok := pool[r.RepoFullName]
		if !ok {
			continue
		}
		score := r.MatchScore
		breakdown := r.Breakdown
		entry.MatchScore = &score
		entry.Breakdown = &breakdown
		out = append(out, entry)
		if len(out) >= target {
			break
		}
	}

	if c.stats != nil {
		c.stats.RecordTiming(metrics.OpScoreBatch, time.Since(start))
	}
	return out
}

// integratedResult joins a search candidate with its metrics. Keywords on
// the metrics side default to the candidate's search keywords, which is
// where the skill overlap signal comes from.
func integratedResult(cand models.CandidateRepo, m models.RepoMetrics) models.IntegratedRepoResult {
	if len(m.Keywords) == 0 {
		m.Keywords = models.NormalizeKeywords(cand.Keywords)
	}
	if m.FullName == "" {
		m = models.NewRepoMetrics(m.Keywords, m.ActiveDaysLast30, m.IssuesNewLast30, m.OpenRank, cand.RepoID)
	}
	return models.IntegratedRepoResult{
		RepoID:      cand.RepoID,
		Keywords:    cand.Keywords,
		Description: cand.Description,
		Stars:       cand.Stars,
		LastUpdated: cand.LastUpdated,
		Metrics:     m,
	}
}

func insufficient(target int, message string) *models.IntegratedSearchResult {
	return &models.IntegratedSearchResult{
		TargetCount:  target,
		IsSufficient: false,
		Message:      message,
	}
}

func roundMessage(sufficient bool, found, target, checked, skipped int) string {
	if sufficient {
		return fmt.Sprintf("found %d repositories with activity metrics", found)
	}
	return fmt.Sprintf(
		"insufficient results: found %d of %d requested repositories; checked %d candidates, %d had no usable metrics; consider broadening keywords or reducing the target count",
		found, target, checked, skipped,
	)
}

func profileMessage(sufficient bool, found, target, rounds, checked int) string {
	if sufficient {
		return fmt.Sprintf("found %d repositories ranked by match score across %d search rounds (%d candidates checked)", found, rounds, checked)
	}
	return fmt.Sprintf(
		"partial results: found %d of %d requested repositories across %d rounds; consider broadening your skills or reducing the target count",
		found, target, rounds,
	)
}
