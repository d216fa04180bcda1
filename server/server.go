package server

import (
	"github.com/lexandro/launchdex/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Setup creates and configures the MCP server with all tool registrations.
func Setup(
	queryHandler *tools.QueryHandler,
	statusHandler *tools.StatusHandler,
	reindexHandler *tools.ReindexHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "launchdex",
			Version: "0.3.0",
		},
		&mcp.ServerOptions{
			Instructions: `This server exposes the launchdex quick-launch index: ranked fuzzy
search over the applications, folders, and documents on this machine.

- Use launchdex_query to find an application or file by a few characters of
  its name. Non-Latin names match by Latin transliteration too (e.g. "wx"
  finds 微信). Applications always rank above other items.
- Use launchdex_status to inspect index health and size.
- Use launchdex_reindex to force a full regather after large filesystem
  changes; the index otherwise updates automatically via a watcher.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "launchdex_query",
		Description: `Find applications, folders, and documents by name fragment.

Matching tiers, best first: exact name, name prefix, name substring,
phonetic (Latin transliteration of non-Latin names, e.g. "weixin" or the
acronym "wx"). Returns at most 10 applications and 20 other items.`,
	}, queryHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "launchdex_status",
		Description: "Show index status: item counts per bucket, last index time and duration, memory usage, uptime.",
	}, statusHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "launchdex_reindex",
		Description: "Force a full regather of all configured scopes. The index rebuilds in the background.",
	}, reindexHandler.Handle)

	return mcpServer
}
