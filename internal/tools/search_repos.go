package tools

import (
	"context"

	"github.com/jzhao-dev/reposcout/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchReposInput defines the input schema for the search_repos tool.
type SearchReposInput struct {
	Keywords    []string `json:"keywords" jsonschema:"required,Search keywords joined with OR against repository topics"`
	TargetCount int      `json:"target_count,omitempty" jsonschema:"Number of qualified repositories to return, 1-50, default 10"`
}

// NewSearchReposHandler creates the search_repos tool handler.
// Runs one keyword round: search candidates, qualify each through
// activity metrics, stop at the target.
func NewSearchReposHandler(deps *Dependencies) mcp.ToolHandlerFor[SearchReposInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchReposInput) (
		*mcp.CallToolResult, any, error,
	) {
		if len(input.Keywords) == 0 {
			return ErrorResult("Keywords cannot be empty", "Provide at least one search keyword"), nil, nil
		}

		opts := search.DefaultOptions()
		if input.TargetCount > 0 {
			opts.TargetCount = input.TargetCount
		}
		if opts.TargetCount > 50 {
			return ErrorResult("Target count must be 1-50", "Reduce target_count"), nil, nil
		}

		result := deps.Coordinator.SearchWithMetrics(ctx, input.Keywords, opts)

		if deps.Store != nil {
			if _, err := deps.Store.SaveSession(ctx, result); err != nil {
				deps.Logger.Warn("failed to save search session", "error", err)
			}
		}

		deps.Logger.Info("search_repos completed",
			"keywords", input.Keywords,
			"found", result.ValidCount,
			"sufficient", result.IsSufficient)

		return JSONResult(result), nil, nil
	}
}
