package tools

import (
	"context"
	"strings"

	"github.com/jzhao-dev/reposcout/internal/models"
	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetRepoInput defines the input schema for the get_repo tool.
type GetRepoInput struct {
	RepoID string `json:"repo_id" jsonschema:"required,Repository identifier as owner/repo"`
}

// getRepoResponse is the tool output shape. Candidate details come from
// the search cache and may be absent for repositories never searched.
type getRepoResponse struct {
	RepoID     string                `json:"repo_id"`
	Details    *models.CandidateRepo `json:"details,omitempty"`
	Metrics    models.RepoMetrics    `json:"metrics"`
	MatchScore *float64              `json:"match_score,omitempty"`
}

// NewGetRepoHandler creates the get_repo tool handler.
// Fetches activity metrics for one repository and, when a saved profile
// exists, scores it against that profile.
func NewGetRepoHandler(deps *Dependencies) mcp.ToolHandlerFor[GetRepoInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetRepoInput) (
		*mcp.CallToolResult, any, error,
	) {
		parts := strings.Split(input.RepoID, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return ErrorResult("Invalid repository id", "Use the owner/repo form, e.g. golang/go"), nil, nil
		}

		repoMetrics, err := deps.Fetcher.Fetch(ctx, input.RepoID)
		if err != nil {
			if search.IsNotFound(err) {
				return ErrorResult("No activity metrics for "+input.RepoID, "The repository may be too small or too new to be tracked"), nil, nil
			}
			deps.Logger.Error("metrics fetch failed", "repo", input.RepoID, "error", err)
			return ErrorResult("Failed to fetch metrics for "+input.RepoID, "Retry later"), nil, nil
		}

		resp := getRepoResponse{RepoID: input.RepoID, Metrics: repoMetrics}

		if deps.Repos != nil {
			if cand, ok := deps.Repos.CachedRepo(input.RepoID); ok {
				resp.Details = &cand
				if len(repoMetrics.Keywords) == 0 {
					resp.Metrics.Keywords = models.NormalizeKeywords(cand.Keywords)
				}
			}
		}

		// Best-effort score against the saved profile.
		if deps.Scorer != nil && deps.Store != nil {
			if profile, err := deps.Store.LoadLatest(ctx); err == nil && profile != nil {
				score := deps.Scorer.Calculate(*profile, resp.Metrics).MatchScore
				resp.MatchScore = &score
			}
		}

		return JSONResult(resp), nil, nil
	}
}
