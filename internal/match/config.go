// Package match implements the multi-factor match scoring model: three
// explainable sub-scores (skill, activity, demand) fused by configurable
// weights into a bounded match score.
package match

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by all configuration validation failures.
var ErrInvalidConfig = errors.New("invalid match config")

// weightTolerance is the floating tolerance for weight-sum validation.
const weightTolerance = 1e-3

// Weights fuses the three sub-scores. Must sum to 1.
type Weights struct {
	Skill    float64 `yaml:"skill"`
	Activity float64 `yaml:"activity"`
	Demand   float64 `yaml:"demand"`
}

// ActivityWeights fuses the three activity signals. Must sum to 1.
type ActivityWeights struct {
	Alpha float64 `yaml:"alpha"` // active days
	Beta  float64 `yaml:"beta"`  // new issues
	Gamma float64 `yaml:"gamma"` // openrank
}

// ActivityThresholds parameterize the truncated linear maps. OpenRank
// thresholds are given in raw units and log1p-scaled at scoring time.
type ActivityThresholds struct {
	ActiveDaysMin int     `yaml:"active_days_min"`
	ActiveDaysMax int     `yaml:"active_days_max"`
	IssuesNewMin  int     `yaml:"issues_new_min"`
	IssuesNewMax  int     `yaml:"issues_new_max"`
	OpenRankMin   float64 `yaml:"openrank_min"`
	OpenRankMax   float64 `yaml:"openrank_max"`
}

// DemandParams parameterize the demand sigmoid.
type DemandParams struct {
	SigmoidMidpoint  float64 `yaml:"sigmoid_midpoint"`
	SigmoidSteepness float64 `yaml:"sigmoid_steepness"`
}

// Config bundles all scoring parameters. Treat instances as immutable;
// presets are alternative values, never mutations of a shared one.
type Config struct {
	Weights    Weights            `yaml:"weights"`
	Activity   ActivityWeights    `yaml:"activity_weights"`
	Thresholds ActivityThresholds `yaml:"activity_thresholds"`
	Demand     DemandParams       `yaml:"demand"`
}

// NewConfig validates and returns a Config. Construction is the only place
// weight invariants are checked; scoring itself never fails.
func NewConfig(w Weights, aw ActivityWeights, th ActivityThresholds, d DemandParams) (Config, error) {
	cfg := Config{Weights: w, Activity: aw, Thresholds: th, Demand: d}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the weight-sum invariants.
func (c Config) Validate() error {
	if sum := c.Weights.Skill + c.Weights.Activity + c.Weights.Demand; abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %v", ErrInvalidConfig, sum)
	}
	if sum := c.Activity.Alpha + c.Activity.Beta + c.Activity.Gamma; abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: activity weights must sum to 1.0, got %v", ErrInvalidConfig, sum)
	}
	return nil
}

// DefaultConfig is the baseline parameter set.
func DefaultConfig() Config {
	return Config{
		Weights:  Weights{Skill: 0.5, Activity: 0.3, Demand: 0.2},
		Activity: ActivityWeights{Alpha: 0.4, Beta: 0.35, Gamma: 0.25},
		Thresholds: ActivityThresholds{
			ActiveDaysMin: 3, ActiveDaysMax: 20,
			IssuesNewMin: 1, IssuesNewMax: 15,
			OpenRankMin: 1.0, OpenRankMax: 100.0,
		},
		Demand: DemandParams{SigmoidMidpoint: 5.0, SigmoidSteepness: 0.5},
	}
}

// BeginnerConfig lowers the skill weight and favors steadily active
// projects, which are friendlier to first-time contributors.
func BeginnerConfig() Config {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skill: 0.4, Activity: 0.4, Demand: 0.2}
	cfg.Activity = ActivityWeights{Alpha: 0.5, Beta: 0.3, Gamma: 0.2}
	cfg.Thresholds.ActiveDaysMin = 5
	cfg.Thresholds.ActiveDaysMax = 15
	cfg.Thresholds.IssuesNewMin = 2
	cfg.Thresholds.IssuesNewMax = 10
	return cfg
}

// ExpertConfig raises the skill and demand weights and shifts the openrank
// window toward higher-influence projects.
func ExpertConfig() Config {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skill: 0.55, Activity: 0.2, Demand: 0.25}
	cfg.Activity = ActivityWeights{Alpha: 0.3, Beta: 0.4, Gamma: 0.3}
	cfg.Thresholds.ActiveDaysMin = 1
	cfg.Thresholds.ActiveDaysMax = 25
	cfg.Thresholds.OpenRankMin = 5.0
	cfg.Thresholds.OpenRankMax = 200.0
	return cfg
}

// IssueSolverConfig raises the demand weight and, within activity, the
// new-issue signal.
func IssueSolverConfig() Config {
	cfg := DefaultConfig()
	cfg.Weights = Weights{Skill: 0.45, Activity: 0.25, Demand: 0.3}
	cfg.Activity = ActivityWeights{Alpha: 0.25, Beta: 0.5, Gamma: 0.25}
	return cfg
}

// ConfigForProfile picks a preset from profile attributes: contribution
// style first, then experience level.
func ConfigForProfile(level, style string) Config {
	if style == "issue_solver" {
		return IssueSolverConfig()
	}
	switch level {
	case "beginner":
		return BeginnerConfig()
	case "advanced":
		return ExpertConfig()
	default:
		return DefaultConfig()
	}
}

// PresetConfig resolves a preset by name. Unknown names are an error so
// typos in flags or tool input surface immediately.
func PresetConfig(name string) (Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "beginner":
		return BeginnerConfig(), nil
	case "expert":
		return ExpertConfig(), nil
	case "issue_solver":
		return IssueSolverConfig(), nil
	default:
		return Config{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
}

// LoadConfig reads a YAML override file on top of the defaults and
// validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read match config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse match config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
