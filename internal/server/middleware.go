package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jzhao-dev/reposcout/internal/metrics"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxParamLogLen bounds logged parameters; tool arguments can carry whole
// profile texts.
const maxParamLogLen = 200

// slowRequestThreshold promotes a request log from DEBUG to WARN.
const slowRequestThreshold = 100 * time.Millisecond

// LoggingMiddleware logs every inbound request with its duration and feeds
// tool-call timings into the stats collector. stats may be nil.
func LoggingMiddleware(logger *slog.Logger, stats *metrics.Collector) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if stats != nil && method == "tools/call" {
				stats.RecordTiming(metrics.OpToolCall, elapsed)
			}

			attrs := []any{
				"method", method,
				"duration_ms", elapsed.Milliseconds(),
			}
			if name := toolName(req); name != "" {
				attrs = append(attrs, "tool", name)
			}
			if params := req.GetParams(); params != nil {
				attrs = append(attrs, "params", truncate(fmt.Sprintf("%+v", params), maxParamLogLen))
			}

			switch {
			case err != nil:
				logger.Error("request failed", append(attrs, "error", err.Error())...)
			case elapsed > slowRequestThreshold:
				logger.Warn("slow request", attrs...)
			default:
				logger.Debug("request completed", attrs...)
			}

			return result, err
		}
	}
}

// toolName extracts the tool name from a tools/call request; empty for
// every other method.
func toolName(req mcp.Request) string {
	if p, ok := req.GetParams().(*mcp.CallToolParams); ok {
		return p.Name
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
