package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	// Ping tool - test/placeholder
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Test tool - responds with pong or echoes input",
	}, NewPingHandler(deps))

	// Keyword search qualified by activity metrics
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_repos",
		Description: "Search GitHub repositories by keywords, keeping only those with recent activity metrics",
	}, NewSearchReposHandler(deps))

	// Profile-driven multi-round recommendation
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend",
		Description: "Recommend repositories ranked by match score against a skill profile, searching keyword combinations across multiple rounds",
	}, NewRecommendHandler(deps))

	// Single repository detail + metrics
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_repo",
		Description: "Get activity metrics and cached details for one repository, scored against the saved profile when available",
	}, NewGetRepoHandler(deps))

	// LLM profile extraction
	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_profile",
		Description: "Extract a structured skill profile from a free-text self-description, optionally saving it",
	}, NewBuildProfileHandler(deps))

	// Runtime statistics
	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Report in-memory runtime statistics for searches, fetches, and caches",
	}, NewStatsHandler(deps))
}
