package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lexandro/launchdex/config"
	"github.com/lexandro/launchdex/engine"
	"github.com/lexandro/launchdex/provider"
	"github.com/lexandro/launchdex/register"
	"github.com/lexandro/launchdex/server"
	"github.com/lexandro/launchdex/tools"
	"github.com/lexandro/launchdex/tui"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// stringList is a repeatable CLI flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ", ") }
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	// "launchdex register ..." has its own argument shape; dispatch before
	// flag parsing.
	if len(os.Args) > 1 && os.Args[1] == "register" {
		register.Run(os.Args[2:])
		return
	}

	var configPath string
	var logLevel string
	var logFile string
	var serve bool
	var scopes stringList
	var excludes stringList

	flag.StringVar(&configPath, "config", "", "Config file path (default: ~/.config/launchdex/config.yaml)")
	flag.Var(&scopes, "scope", "Extra directory to index (repeatable)")
	flag.Var(&excludes, "exclude", "Extra glob exclusion (repeatable)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: launchdex.log next to config)")
	flag.BoolVar(&serve, "serve", false, "Run as an MCP server on stdio instead of the launcher UI")
	flag.Parse()

	if configPath == "" {
		configPath = config.DefaultPath()
	}

	// Neither mode can log to the terminal: the TUI owns the screen and MCP
	// stdio owns stdout.
	if logFile == "" {
		logFile = filepath.Join(filepath.Dir(configPath), "launchdex.log")
	}
	logger := setupLogger(logLevel, logFile)

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg.Scopes = append(cfg.Scopes, scopes...)
	cfg.Patterns = append(cfg.Patterns, excludes...)

	logger.Info("starting launchdex",
		"config", configPath,
		"scopes", cfg.Scopes,
		"serve", serve,
	)

	startTime := time.Now()

	fsProvider := provider.NewFSProvider(logger)
	if cfg.ResyncMinutes > 0 {
		fsProvider.ResyncInterval = time.Duration(cfg.ResyncMinutes) * time.Minute
	}

	eng := engine.New(fsProvider, nil, logger)
	fsProvider.SkipDir = eng.PathExcluded

	engineCfg := engine.Config{
		Scopes:        cfg.Scopes,
		ExcludedPaths: cfg.ExcludedPaths,
		ExcludedNames: cfg.ExcludedNames,
		Patterns:      cfg.Patterns,
	}
	if err := eng.StartIndexing(engineCfg); err != nil {
		logger.Error("failed to start indexing", "error", err)
		os.Exit(1)
	}
	defer eng.StopIndexing()

	if serve {
		runServer(eng, engineCfg, startTime, logger)
		return
	}

	if err := tui.Run(eng); err != nil {
		logger.Error("launcher UI error", "error", err)
		os.Exit(1)
	}
}

// runServer exposes the engine over MCP stdio.
func runServer(eng *engine.Engine, engineCfg engine.Config, startTime time.Time, logger *slog.Logger) {
	queryHandler := &tools.QueryHandler{Engine: eng, Logger: logger}
	statusHandler := &tools.StatusHandler{Engine: eng, StartTime: startTime, Logger: logger}
	reindexHandler := &tools.ReindexHandler{
		Logger: logger,
		// Restarting the subscription also re-reads .launchdexignore files.
		DoReindex: func() error {
			return eng.StartIndexing(engineCfg)
		},
	}

	mcpServer := server.Setup(queryHandler, statusHandler, reindexHandler)

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		logger.Error("MCP server error", "error", err)
		os.Exit(1)
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
