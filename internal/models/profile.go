// Package models defines the value types shared by the matching and search
// packages: user profiles, repository metrics, and result envelopes.
package models

import (
	"fmt"
	"strings"
)

// ContributionStyle describes how a user prefers to contribute.
type ContributionStyle string

const (
	StyleIssueSolver   ContributionStyle = "issue_solver"
	StylePRContributor ContributionStyle = "pr_contributor"
	StyleDocsWriter    ContributionStyle = "docs_writer"
	StyleReviewer      ContributionStyle = "reviewer"
	StyleGeneral       ContributionStyle = "general"
)

// ParseContributionStyle maps a string to a known style, falling back to
// StyleGeneral for anything unrecognized.
func ParseContributionStyle(s string) ContributionStyle {
	switch ContributionStyle(strings.ToLower(strings.TrimSpace(s))) {
	case StyleIssueSolver, StylePRContributor, StyleDocsWriter, StyleReviewer, StyleGeneral:
		return ContributionStyle(strings.ToLower(strings.TrimSpace(s)))
	default:
		return StyleGeneral
	}
}

// ExperienceLevel describes how experienced a user is.
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// ParseExperienceLevel maps a string to a known level, defaulting to
// intermediate.
func ParseExperienceLevel(s string) ExperienceLevel {
	switch ExperienceLevel(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return ExperienceLevel(strings.ToLower(strings.TrimSpace(s)))
	default:
		return LevelIntermediate
	}
}

// UserProfile holds a user's normalized skill set and preferences.
// Skills are lowercased, trimmed, and deduplicated at construction;
// the value is not mutated afterwards.
type UserProfile struct {
	ID                string            `json:"id,omitempty"`
	Skills            []string          `json:"skills"`
	ContributionStyle ContributionStyle `json:"contribution_style,omitempty"`
	ExperienceLevel   ExperienceLevel   `json:"experience_level"`
}

// NewUserProfile builds a profile, normalizing skills once at creation.
// Duplicate skills collapse to their first occurrence so downstream
// keyword combination order stays deterministic.
func NewUserProfile(skills []string, style ContributionStyle, level ExperienceLevel) UserProfile {
	if style == "" {
		style = StyleGeneral
	}
	if level == "" {
		level = LevelIntermediate
	}
	return UserProfile{
		Skills:            NormalizeSkills(skills),
		ContributionStyle: style,
		ExperienceLevel:   level,
	}
}

// ProfileFromMap builds a profile from a loosely-typed mapping, the shape
// returned by the LLM extraction layer and by cached JSON documents.
func ProfileFromMap(data map[string]any) (UserProfile, error) {
	if data == nil {
		return UserProfile{}, fmt.Errorf("profile data is nil")
	}

	skills, err := stringSlice(data["skills"])
	if err != nil {
		return UserProfile{}, fmt.Errorf("profile skills: %w", err)
	}

	style := StyleGeneral
	if v, ok := data["contribution_style"].(string); ok {
		style = ParseContributionStyle(v)
	}

	level := LevelIntermediate
	if v, ok := data["experience_level"].(string); ok {
		level = ParseExperienceLevel(v)
	}

	p := NewUserProfile(skills, style, level)
	if id, ok := data["id"].(string); ok {
		p.ID = id
	}
	return p, nil
}

// HasSkills reports whether the profile carries at least one skill.
func (p UserProfile) HasSkills() bool {
	return len(p.Skills) > 0
}

// SkillSet returns the skills as a set for overlap computations.
func (p UserProfile) SkillSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		set[s] = struct{}{}
	}
	return set
}

// NormalizeSkill lowercases and trims a single skill tag.
func NormalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSkills normalizes a skill list, dropping empties and duplicates
// while preserving first-occurrence order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := NormalizeSkill(s)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func stringSlice(v any) ([]string, error) {
	switch vs := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return vs, nil
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string list, got %T", v)
	}
}
