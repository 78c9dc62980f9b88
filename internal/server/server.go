// Package server provides the MCP server wrapper with lifecycle management.
package server

import (
	"context"
	"log/slog"

	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server bundles the MCP server with its logger and stats collector.
type Server struct {
	mcp    *mcp.Server
	logger *slog.Logger
	stats  *metrics.Collector
}

// New creates the MCP server. stats may be nil; tool-call timings are then
// not recorded.
func New(version string, logger *slog.Logger, stats *metrics.Collector) *Server {
	impl := &mcp.Implementation{
		Name:    "reposcout",
		Version: version,
	}

	return &Server{
		mcp:    mcp.NewServer(impl, nil),
		logger: logger,
		stats:  stats,
	}
}

// Setup attaches the logging and stats middleware. Call before Run.
func (s *Server) Setup() {
	s.mcp.AddReceivingMiddleware(LoggingMiddleware(s.logger, s.stats))
}

// Run serves on stdio and blocks until disconnect or context cancellation.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", "transport", "stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server for tool registration.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}
