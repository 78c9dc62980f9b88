package models

// ScoreBreakdown carries the three explainable sub-scores, each in [0, 1].
// It is always recomputed from (profile, metrics, config), never stored
// independently.
type ScoreBreakdown struct {
	Skill    float64 `json:"skill"`
	Activity float64 `json:"activity"`
	Demand   float64 `json:"demand"`
}

// MatchResult is the score for one (profile, repository) pair.
type MatchResult struct {
	MatchScore   float64        `json:"match_score"`
	Breakdown    ScoreBreakdown `json:"breakdown"`
	RepoName     string         `json:"repo_name,omitempty"`
	RepoFullName string         `json:"repo_full_name,omitempty"`
}

// SkipReason classifies why a candidate was not qualified. Keeping the
// reason typed makes search failure modes inspectable in tests and logs
// instead of being swallowed by a blanket catch.
type SkipReason string

const (
	SkipNoMetrics SkipReason = "no_metrics"
	SkipTransient SkipReason = "transient_error"
	SkipMalformed SkipReason = "malformed_candidate"
)

// CandidateSkip records one skipped candidate with its reason.
type CandidateSkip struct {
	RepoID string     `json:"repo_id"`
	Reason SkipReason `json:"reason"`
}

// IntegratedRepoResult is one qualified repository: search metadata plus
// metrics, and the match score once the scoring step has run. Created once
// per unique repo id per search session.
type IntegratedRepoResult struct {
	RepoID      string          `json:"repo_id"`
	Keywords    []string        `json:"keywords"`
	Description string          `json:"description"`
	Stars       int             `json:"stars"`
	LastUpdated string          `json:"last_updated"`
	Metrics     RepoMetrics     `json:"metrics"`
	MatchScore  *float64        `json:"match_score,omitempty"`
	Breakdown   *ScoreBreakdown `json:"match_breakdown,omitempty"`
}

// IntegratedSearchResult is the final envelope of a search run. It is built
// once at the end of the search and not mutated afterwards. Failures during
// the run are folded into the counters and message; a caller always gets a
// well-formed result.
type IntegratedSearchResult struct {
	SearchKeywords []string               `json:"search_keywords"`
	Repositories   []IntegratedRepoResult `json:"repositories"`
	TargetCount    int                    `json:"target_count"`
	IsSufficient   bool                   `json:"is_sufficient"`
	Message        string                 `json:"message"`

	ReposChecked int             `json:"repos_checked"`
	ValidCount   int             `json:"valid_count"`
	SkippedCount int             `json:"skipped_count"`
	Skips        []CandidateSkip `json:"skips,omitempty"`

	// Multi-round search only.
	RoundsRun         int `json:"rounds_run,omitempty"`
	CombinationsTried int `json:"combinations_tried,omitempty"`
}
