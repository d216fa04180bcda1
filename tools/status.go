package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/launchdex/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the launchdex_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Engine    *engine.Engine
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a launchdex_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	status := h.Engine.Status()
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("launchdex_status",
		"items", status.TotalItems,
		"active", status.Active,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	var builder strings.Builder
	builder.WriteString("=== launchdex Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Indexing active: %v\n", status.Active))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexed items: %d (%d applications, %d other)\n",
		status.TotalItems, status.AppCount, status.FileCount))
	if !status.LastIndexedAt.IsZero() {
		builder.WriteString(fmt.Sprintf("Last indexed: %s ago\n",
			formatDuration(time.Since(status.LastIndexedAt))))
		builder.WriteString(fmt.Sprintf("Last index duration: %s\n",
			status.LastIndexDuration.Round(time.Millisecond)))
	} else {
		builder.WriteString("Last indexed: never\n")
	}
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatByteSize(int64(memStats.Alloc)),
		formatByteSize(int64(memStats.HeapAlloc)),
	))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
