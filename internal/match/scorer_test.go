package match

import (
	"math"
	"testing"

	"github.com/jzhao-dev/reposcout/internal/models"
)

func newTestScorer() *Scorer {
	return NewScorer(DefaultConfig(), nil)
}

func TestSkillScore(t *testing.T) {
	scorer := newTestScorer()

	tests := []struct {
		name     string
		skills   []string
		keywords []string
		want     float64
	}{
		{"empty skills", nil, []string{"go"}, 0},
		{"empty keywords", []string{"go"}, nil, 0},
		{"both empty", nil, nil, 0},
		{"identical singletons", []string{"python"}, []string{"python"}, 1.0},
		{"larger set as denominator", []string{"python"}, []string{"python", "fastapi", "ml"}, 1.0 / 3.0},
		{"no overlap", []string{"rust"}, []string{"python", "go"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := models.NewUserProfile(tt.skills, "", "")
			repo := models.NewRepoMetrics(tt.keywords, 0, 0, 0, "o/r")
			got := scorer.Calculate(profile, repo).Breakdown.Skill
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("skill = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncatedLinear(t *testing.T) {
	const vMin, vMax = 3.0, 20.0

	tests := []struct {
		v    float64
		want float64
	}{
		{vMin, 0},
		{vMax, 1},
		{(vMin + vMax) / 2, 0.5},
		{vMin - 1, 0},
		{vMax + 1, 1},
	}
	for _, tt := range tests {
		if got := truncatedLinear(tt.v, vMin, vMax); got != tt.want {
			t.Errorf("truncatedLinear(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestSigmoidClampsExtremes(t *testing.T) {
	if got := sigmoid(1e6, 1.0); got != 1 {
		t.Errorf("sigmoid(+inf-ish) = %v, want 1", got)
	}
	if got := sigmoid(-1e6, 1.0); got != 0 {
		t.Errorf("sigmoid(-inf-ish) = %v, want 0", got)
	}
	if got := sigmoid(0, 0.5); got != 0.5 {
		t.Errorf("sigmoid(0) = %v, want 0.5", got)
	}
}

func TestCalculateScoreAlwaysInRange(t *testing.T) {
	scorer := newTestScorer()
	profile := models.NewUserProfile([]string{"go", "kubernetes", "grpc"}, "", "")

	repos := []models.RepoMetrics{
		models.NewRepoMetrics(nil, 0, 0, 0, "a/empty"),
		models.NewRepoMetrics([]string{"go", "kubernetes", "grpc"}, 30, 1000, 1e9, "a/huge"),
		models.NewRepoMetrics([]string{"go"}, 15, 7, 42, "a/mid"),
	}

	for _, repo := range repos {
		got := scorer.Calculate(profile, repo)
		if got.MatchScore < 0 || got.MatchScore > 1 {
			t.Errorf("%s: score %v out of [0,1]", repo.FullName, got.MatchScore)
		}
		for name, sub := range map[string]float64{
			"skill":    got.Breakdown.Skill,
			"activity": got.Breakdown.Activity,
			"demand":   got.Breakdown.Demand,
		} {
			if sub < 0 || sub > 1 {
				t.Errorf("%s: %s sub-score %v out of [0,1]", repo.FullName, name, sub)
			}
		}
	}
}

func TestCalculateBatchSortStability(t *testing.T) {
	scorer := newTestScorer()
	profile := models.NewUserProfile([]string{"go"}, "", "")

	// b and c are identical repos under different names: equal scores,
	// so the stable sort must keep their input order.
	repos := []models.RepoMetrics{
		models.NewRepoMetrics(nil, 0, 0, 0, "x/zero"),
		models.NewRepoMetrics([]string{"go"}, 12, 8, 72.5, "x/b"),
		models.NewRepoMetrics([]string{"go"}, 12, 8, 72.5, "x/c"),
	}

	results := scorer.CalculateBatch(profile, repos)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].MatchScore > results[i-1].MatchScore {
			t.Errorf("results not non-increasing at %d: %v > %v", i, results[i].MatchScore, results[i-1].MatchScore)
		}
	}
	if results[0].RepoFullName != "x/b" || results[1].RepoFullName != "x/c" {
		t.Errorf("equal-score order not stable: %s, %s", results[0].RepoFullName, results[1].RepoFullName)
	}
	if results[2].RepoFullName != "x/zero" {
		t.Errorf("lowest score not last: %s", results[2].RepoFullName)
	}
}

// TestCalculateComposition verifies the full formula end to end by
// recomputing every term independently rather than asserting a literal.
func TestCalculateComposition(t *testing.T) {
	cfg := DefaultConfig()
	scorer := NewScorer(cfg, nil)

	profile := models.NewUserProfile([]string{"python", "docker", "rest-api"}, "", "")
	repo := models.NewRepoMetrics([]string{"python", "fastapi", "ml"}, 12, 8, 72.5, "acme/svc")

	got := scorer.Calculate(profile, repo)

	// Skill: intersection {python}, max(|U|,|R|) = 3.
	wantSkill := 1.0 / 3.0
	if math.Abs(got.Breakdown.Skill-wantSkill) > 1e-12 {
		t.Errorf("skill = %v, want %v", got.Breakdown.Skill, wantSkill)
	}

	// Activity: defaults active_days 3..20 => 9/17, issues_new 1..15 => 7/14,
	// openrank log1p-scaled against log1p(1)..log1p(100).
	fDays := (12.0 - 3.0) / (20.0 - 3.0)
	fIssues := (8.0 - 1.0) / (15.0 - 1.0)
	fRank := (math.Log1p(72.5) - math.Log1p(1.0)) / (math.Log1p(100.0) - math.Log1p(1.0))
	wantActivity := cfg.Activity.Alpha*fDays + cfg.Activity.Beta*fIssues + cfg.Activity.Gamma*fRank
	if math.Abs(got.Breakdown.Activity-wantActivity) > 1e-12 {
		t.Errorf("activity = %v, want %v", got.Breakdown.Activity, wantActivity)
	}

	wantDemand := wantSkill / (1.0 + math.Exp(-cfg.Demand.SigmoidSteepness*(8.0-cfg.Demand.SigmoidMidpoint)))
	if math.Abs(got.Breakdown.Demand-wantDemand) > 1e-12 {
		t.Errorf("demand = %v, want %v", got.Breakdown.Demand, wantDemand)
	}

	wantScore := cfg.Weights.Skill*wantSkill + cfg.Weights.Activity*wantActivity + cfg.Weights.Demand*wantDemand
	if math.Abs(got.MatchScore-wantScore) > 1e-12 {
		t.Errorf("match score = %v, want %v", got.MatchScore, wantScore)
	}
}
