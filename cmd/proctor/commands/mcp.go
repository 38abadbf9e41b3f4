package commands

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proctorhq/proctor/ai/tracker"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/logger"
	"github.com/proctorhq/proctor/mcp"
)

// MCPCmd serves the technique catalog over MCP on stdio.
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the technique catalog over MCP (stdio)",
	Long: `Start a Model Context Protocol server on stdio exposing the
technique catalog as tools: list_techniques, generate_prompt, and
execute_technique.

Intended to be launched by an MCP client, not interactively.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := tracker.Open(cfg.GetDatabasePath())
	if err != nil {
		logger.Warnw("Usage tracking unavailable", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	server, err := mcp.NewServer(cfg, db)
	if err != nil {
		return fmt.Errorf("failed to build MCP server: %w", err)
	}

	if watcher := watchConfig(server, db); watcher != nil {
		defer watcher.Stop()
	}

	logger.Infow("Serving MCP on stdio")
	return server.Serve(cmd.Context())
}

// watchConfig rebuilds the server's registry and executor whenever the
// config file changes, so selector strategy or model changes take effect
// without restarting the MCP session. Returns nil when nothing is watched.
func watchConfig(server *mcp.Server, db *sql.DB) *config.ConfigWatcher {
	configPath := config.ConfigFilePath()
	if configPath == "" {
		logger.Infow("No config file in use, live reload disabled")
		return nil
	}

	watcher, err := config.NewConfigWatcher(configPath)
	if err != nil {
		logger.Warnw("Config watching unavailable, restart to pick up changes",
			"error", err, "path", configPath)
		return nil
	}

	watcher.OnReload(func(newCfg *config.Config) error {
		return server.Reload(newCfg, db)
	})
	watcher.Start()
	logger.Infow("Watching config for changes", "path", configPath)
	return watcher
}
