package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/launchdex/engine"
)

// FormatQueryResults formats query results as human-readable text:
// applications first, then other items, each with its match tier and path.
func FormatQueryResults(results []engine.Result) string {
	if len(results) == 0 {
		return "No matches."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches:\n\n", len(results)))

	for _, r := range results {
		marker := " "
		switch {
		case r.IsApplication:
			marker = "A"
		case r.IsDirectory:
			marker = "D"
		}
		builder.WriteString(fmt.Sprintf("  [%s] %-30s %s  (%s)\n", marker, r.Name, r.Path, r.Tier))
	}

	return builder.String()
}

// formatByteSize converts bytes to a human-readable string.
func formatByteSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
