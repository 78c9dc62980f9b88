package match

import (
	"log/slog"
	"math"
	"sort"

	"github.com/jzhao-dev/reposcout/internal/models"
)

// Scorer computes match scores for (profile, repository) pairs. It is pure
// and stateless apart from its read-only config, so one instance is safe to
// share across concurrent callers.
type Scorer struct {
	cfg    Config
	logger *slog.Logger
}

// NewScorer creates a scorer for the given config. A nil logger falls back
// to slog.Default().
func NewScorer(cfg Config, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{cfg: cfg, logger: logger}
}

// Config returns the scorer's parameter set.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Calculate scores one repository against the profile. Deterministic, no
// I/O; missing metric fields score as zero rather than failing.
func (s *Scorer) Calculate(profile models.UserProfile, repo models.RepoMetrics) models.MatchResult {
	skill := skillScore(profile.SkillSet(), repo.KeywordSet())
	activity := s.activityScore(repo)
	demand := s.demandScore(skill, repo.IssuesNewLast30)

	w := s.cfg.Weights
	score := clamp01(w.Skill*skill + w.Activity*activity + w.Demand*demand)

	s.logger.Debug("match calculated",
		"repo", repo.FullName,
		"score", score,
		"skill", skill,
		"activity", activity,
		"demand", demand,
	)

	return models.MatchResult{
		MatchScore: score,
		Breakdown: models.ScoreBreakdown{
			Skill:    skill,
			Activity: activity,
			Demand:   demand,
		},
		RepoName:     repo.Name,
		RepoFullName: repo.FullName,
	}
}

// CalculateBatch scores each repository independently and returns the
// results sorted by descending match score. The sort is stable: equal
// scores keep their input order.
func (s *Scorer) CalculateBatch(profile models.UserProfile, repos []models.RepoMetrics) []models.MatchResult {
	results := make([]models.MatchResult, 0, len(repos))
	for _, repo := range repos {
		result := s.Calculate(profile, repo)
		if math.IsNaN(result.MatchScore) {
			s.logger.Warn("skipping repo with non-finite score", "repo", repo.FullName)
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return results
}

// skillScore is a Jaccard variant with the larger set as denominator:
// |U ∩ R| / max(|U|, |R|). Stricter than standard Jaccard, it penalizes
// both very broad keyword lists and very narrow skill lists. Zero when
// either set is empty.
func skillScore(user, repo map[string]struct{}) float64 {
	if len(user) == 0 || len(repo) == 0 {
		return 0
	}
	smaller, larger := user, repo
	if len(repo) < len(user) {
		smaller, larger = repo, user
	}
	intersection := 0
	for k := range smaller {
		if _, ok := larger[k]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(len(larger))
}

// activityScore fuses active days, new issues, and log-scaled openrank
// through truncated linear maps. OpenRank is log1p-compressed because its
// distribution is long-tailed; the thresholds are scaled the same way.
func (s *Scorer) activityScore(repo models.RepoMetrics) float64 {
	th := s.cfg.Thresholds
	aw := s.cfg.Activity

	activeDays := truncatedLinear(float64(repo.ActiveDaysLast30), float64(th.ActiveDaysMin), float64(th.ActiveDaysMax))
	issuesNew := truncatedLinear(float64(repo.IssuesNewLast30), float64(th.IssuesNewMin), float64(th.IssuesNewMax))
	openrank := truncatedLinear(math.Log1p(repo.OpenRank), math.Log1p(th.OpenRankMin), math.Log1p(th.OpenRankMax))

	return aw.Alpha*activeDays + aw.Beta*issuesNew + aw.Gamma*openrank
}

// demandScore gates the demand signal by skill relevance: a repo generates
// demand for this user only in proportion to how relevant they are and how
// much unmet work exists above the sigmoid midpoint.
func (s *Scorer) demandScore(skill float64, issuesNew int) float64 {
	x := float64(issuesNew) - s.cfg.Demand.SigmoidMidpoint
	return skill * sigmoid(x, s.cfg.Demand.SigmoidSteepness)
}

// truncatedLinear maps [vMin, vMax] onto [0, 1], saturating outside.
func truncatedLinear(v, vMin, vMax float64) float64 {
	if v <= vMin {
		return 0
	}
	if v >= vMax {
		return 1
	}
	return (v - vMin) / (vMax - vMin)
}

// sigmoid is the logistic function 1/(1+e^{-k·x}), clamped for extreme
// arguments instead of overflowing.
func sigmoid(x, steepness float64) float64 {
	arg := steepness * x
	if arg > 500 {
		return 1
	}
	if arg < -500 {
		return 0
	}
	return 1.0 / (1.0 + math.Exp(-arg))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
