package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/launchdex/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryArgs defines the input parameters for the launchdex_query tool.
type QueryArgs struct {
	Text string `json:"text" jsonschema:"Characters to match against indexed names (e.g. saf, wx)"`
}

// QueryHandler holds the dependencies for the query tool.
type QueryHandler struct {
	Engine *engine.Engine
	Logger *slog.Logger
}

// Handle processes a launchdex_query request through the immediate query
// path: bounded caps, deterministic latency, no I/O.
func (h *QueryHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args QueryArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Text == "" {
		h.Logger.Warn("launchdex_query called with empty text")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: text parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	results := h.Engine.QueryNow(args.Text)

	h.Logger.Info("launchdex_query",
		"text", args.Text,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatQueryResults(results)}},
	}, nil, nil
}
