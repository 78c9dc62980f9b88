package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsInput defines the input schema for the stats tool. No parameters.
type StatsInput struct{}

// NewStatsHandler creates the stats tool handler.
// Returns a snapshot of in-memory runtime statistics.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (
		*mcp.CallToolResult, any, error,
	) {
		if deps.Stats == nil {
			return ErrorResult("Statistics collection is not enabled", ""), nil, nil
		}
		return JSONResult(deps.Stats.Snapshot()), nil, nil
	}
}
