package models

import (
	"reflect"
	"testing"
)

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercase and trim", []string{" Python ", "Docker"}, []string{"python", "docker"}},
		{"duplicates collapse to first", []string{"go", "GO", "rust", "go"}, []string{"go", "rust"}},
		{"empties dropped", []string{"", "  ", "k8s"}, []string{"k8s"}},
		{"nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSkills(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeSkills(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewUserProfileDefaults(t *testing.T) {
	p := NewUserProfile([]string{"Go"}, "", "")
	if p.ContributionStyle != StyleGeneral {
		t.Errorf("default style = %q, want %q", p.ContributionStyle, StyleGeneral)
	}
	if p.ExperienceLevel != LevelIntermediate {
		t.Errorf("default level = %q, want %q", p.ExperienceLevel, LevelIntermediate)
	}
}

func TestProfileFromMap(t *testing.T) {
	t.Run("loosely typed values", func(t *testing.T) {
		p, err := ProfileFromMap(map[string]any{
			"skills":             []any{"Python", "docker ", "python"},
			"contribution_style": "issue_solver",
			"experience_level":   "advanced",
		})
		if err != nil {
			t.Fatalf("ProfileFromMap: %v", err)
		}
		if want := []string{"python", "docker"}; !reflect.DeepEqual(p.Skills, want) {
			t.Errorf("skills = %v, want %v", p.Skills, want)
		}
		if p.ContributionStyle != StyleIssueSolver {
			t.Errorf("style = %q", p.ContributionStyle)
		}
		if p.ExperienceLevel != LevelAdvanced {
			t.Errorf("level = %q", p.ExperienceLevel)
		}
	})

	t.Run("unknown style falls back to general", func(t *testing.T) {
		p, err := ProfileFromMap(map[string]any{
			"skills":             []string{"go"},
			"contribution_style": "benevolent_dictator",
		})
		if err != nil {
			t.Fatalf("ProfileFromMap: %v", err)
		}
		if p.ContributionStyle != StyleGeneral {
			t.Errorf("style = %q, want general", p.ContributionStyle)
		}
	})

	t.Run("non-string skill element fails", func(t *testing.T) {
		if _, err := ProfileFromMap(map[string]any{"skills": []any{1}}); err == nil {
			t.Error("expected error for non-string skill")
		}
	})

	t.Run("nil map fails", func(t *testing.T) {
		if _, err := ProfileFromMap(nil); err == nil {
			t.Error("expected error for nil map")
		}
	})
}

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Machine Learning", "machinelearning"},
		{" REST-API ", "rest-api"},
		{"c++", "c"},
		{"snake_case", "snake_case"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKeyword(tt.in); got != tt.want {
			t.Errorf("NormalizeKeyword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCandidateRepoValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"owner/repo", true},
		{"owner/", false},
		{"/repo", false},
		{"ownerrepo", false},
		{"a/b/c", false},
		{"", false},
	}
	for _, tt := range tests {
		c := CandidateRepo{RepoID: tt.id}
		if got := c.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestNewRepoMetricsClampsNegatives(t *testing.T) {
	m := NewRepoMetrics([]string{"Go"}, -1, -2, -3.5, "owner/repo")
	if m.ActiveDaysLast30 != 0 || m.IssuesNewLast30 != 0 || m.OpenRank != 0 {
		t.Errorf("negative metrics not clamped: %+v", m)
	}
	if m.Name != "repo" {
		t.Errorf("name = %q, want repo", m.Name)
	}
}
