// Package profile builds user profiles from free-text self-descriptions
// via LLM extraction and defines the persistence interface for them.
package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jzhao-dev/reposcout/internal/llm"
	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/jzhao-dev/reposcout/internal/models"
)

// Generator is the text-generation capability the builder needs,
// satisfied by llm.Model.
type Generator interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, llm.Usage, error)
	Model() string
}

// Store persists profiles. Satisfied by the db package; the search
// coordinator consumes the LoadLatest subset as its ProfileSource.
type Store interface {
	SaveProfile(ctx context.Context, p models.UserProfile, sourceText string) (string, error)
	LoadLatest(ctx context.Context) (*models.UserProfile, error)
	LoadByID(ctx context.Context, id string) (*models.UserProfile, error)
	ListProfiles(ctx context.Context) ([]models.UserProfile, error)
}

const systemPrompt = `You are a developer profile analyst. Extract the developer's technical skills, preferred contribution styles, and experience level from their self-description.

Respond with ONLY a JSON object in this exact shape:
{"skills": ["skill-1", "skill-2"], "contribution_styles": ["bug_fix"], "experience_level": "intermediate"}

Rules:
- skills: lowercase tags as used in GitHub topics (e.g. "python", "kubernetes", "rest-api")
- contribution_styles: zero or more of bug_fix, feature, docs, review, test, community
- experience_level: one of beginner, intermediate, advanced
- Output nothing besides the JSON object`

// styleAliases maps the extraction vocabulary onto profile styles.
var styleAliases = map[string]models.ContributionStyle{
	"bug_fix":        models.StyleIssueSolver,
	"issue_solver":   models.StyleIssueSolver,
	"feature":        models.StylePRContributor,
	"pr_contributor": models.StylePRContributor,
	"docs":           models.StyleDocsWriter,
	"docs_writer":    models.StyleDocsWriter,
	"review":         models.StyleReviewer,
	"reviewer":       models.StyleReviewer,
}

// Builder extracts profiles from free text.
type Builder struct {
	llm    Generator
	logger *slog.Logger
	stats  *metrics.Collector
}

// NewBuilder creates a profile builder.
func NewBuilder(llm Generator, logger *slog.Logger, stats *metrics.Collector) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{llm: llm, logger: logger, stats: stats}
}

// BuildFromText extracts a profile from a self-description. The model
// output is parsed, validated, and normalized through models.NewUserProfile;
// any failure along the way is returned as an error, never a half-built
// profile.
func (b *Builder) BuildFromText(ctx context.Context, text string) (models.UserProfile, error) {
	if text == "" {
		return models.UserProfile{}, fmt.Errorf("empty profile text")
	}

	start := time.Now()
	response, usage, err := b.llm.GenerateWithSystem(ctx, systemPrompt, text)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("profile extraction: %w", err)
	}
	if b.stats != nil {
		b.stats.RecordLLMUsage(metrics.OpLLMExtract, time.Since(start), usage.InputTokens, usage.OutputTokens)
	}

	ext, err := parseExtraction(response)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("profile extraction: %w", err)
	}

	p := models.NewUserProfile(ext.Skills, styleFrom(ext.ContributionStyles), models.ParseExperienceLevel(ext.ExperienceLevel))
	if !p.HasSkills() {
		return models.UserProfile{}, fmt.Errorf("no skills extracted from text")
	}

	b.logger.Info("profile built", "model", b.llm.Model(), "skills", p.Skills, "style", p.ContributionStyle, "level", p.ExperienceLevel)
	return p, nil
}

// styleFrom picks the first recognized contribution style.
func styleFrom(styles []string) models.ContributionStyle {
	for _, s := range styles {
		if mapped, ok := styleAliases[s]; ok {
			return mapped
		}
	}
	return models.StyleGeneral
}
