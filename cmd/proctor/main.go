package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/proctorhq/proctor/cmd/proctor/commands"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/logger"
)

var rootCmd = &cobra.Command{
	Use:   "proctor",
	Short: "Proctor - prompt engineering technique toolkit",
	Long: `Proctor - a toolkit of prompting techniques with semantic example
retrieval and resilient model invocation.

Available commands:
  list    - List the technique catalog
  run     - Render or execute a technique on an input
  config  - Inspect and validate configuration
  stats   - Show model usage statistics
  mcp     - Serve the technique catalog over MCP (stdio)
  version - Show version information

Examples:
  proctor list --category 2.2.3             # Thought-generation techniques
  proctor run chain_of_thought "Solve 12*13"
  proctor run knn "classify: sparrow" --examples pool.yaml --k 2
  proctor run role_prompting "Explain inflation" --dry-run
  proctor config show --format yaml
  proctor stats --since 24h`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := logger.Initialize(cfg.Logging.JSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.ListCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.StatsCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
