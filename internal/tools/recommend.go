package tools

import (
	"context"

	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RecommendInput defines the input schema for the recommend tool.
// When skills are omitted the most recently saved profile is used.
type RecommendInput struct {
	Skills            []string `json:"skills,omitempty" jsonschema:"Skills to match against repository topics; omit to use the saved profile"`
	ContributionStyle string   `json:"contribution_style,omitempty" jsonschema:"One of: issue_solver, pr_contributor, docs_writer, reviewer, general"`
	ExperienceLevel   string   `json:"experience_level,omitempty" jsonschema:"One of: beginner, intermediate, advanced"`
	TargetCount       int      `json:"target_count,omitempty" jsonschema:"Number of ranked repositories to return, 1-50, default 10"`
}

// NewRecommendHandler creates the recommend tool handler.
// Runs the multi-round profile search: keyword combinations, global
// deduplication, then ranking by match score.
func NewRecommendHandler(deps *Dependencies) mcp.ToolHandlerFor[RecommendInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input RecommendInput) (
		*mcp.CallToolResult, any, error,
	) {
		opts := search.DefaultOptions()
		if input.TargetCount > 0 {
			opts.TargetCount = input.TargetCount
		}
		if opts.TargetCount > 50 {
			return ErrorResult("Target count must be 1-50", "Reduce target_count"), nil, nil
		}

		// Explicit skills build an ad-hoc profile; otherwise the
		// coordinator falls back to the saved one.
		var profile *models.UserProfile
		if len(input.Skills) > 0 {
			p := models.NewUserProfile(
				input.Skills,
				models.ParseContributionStyle(input.ContributionStyle),
				models.ParseExperienceLevel(input.ExperienceLevel),
			)
			profile = &p
		}

		result := deps.Coordinator.SearchWithProfile(ctx, profile, opts)

		if deps.Store != nil {
			if _, err := deps.Store.SaveSession(ctx, result); err != nil {
				deps.Logger.Warn("failed to save search session", "error", err)
			}
		}

		deps.Logger.Info("recommend completed",
			"found", result.ValidCount,
			"rounds", result.RoundsRun,
			"sufficient", result.IsSufficient)

		return JSONResult(result), nil, nil
	}
}
