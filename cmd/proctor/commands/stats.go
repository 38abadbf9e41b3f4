package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/proctorhq/proctor/ai/tracker"
	"github.com/proctorhq/proctor/config"
)

// StatsCmd prints model usage statistics from the tracking database.
var StatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show model usage statistics",
	Long: `Show aggregate model usage from the tracking database: request
counts, token totals, estimated cost, and per-model and per-technique
breakdowns.

Examples:
  proctor stats              # All recorded usage
  proctor stats --since 24h  # Usage in the last 24 hours`,
	RunE: runStats,
}

var statsSince string

func init() {
	StatsCmd.Flags().StringVar(&statsSince, "since", "", "Window to report on (e.g. 1h, 24h, 168h); empty means all time")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	since := time.Time{}
	if statsSince != "" {
		window, err := time.ParseDuration(statsSince)
		if err != nil {
			return fmt.Errorf("invalid --since value %q: %w", statsSince, err)
		}
		since = time.Now().Add(-window)
	}

	db, err := tracker.Open(cfg.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("failed to open tracking database: %w", err)
	}
	defer db.Close()

	t := tracker.NewUsageTracker(db, 0)

	stats, err := t.GetUsageStats(since)
	if err != nil {
		return fmt.Errorf("failed to read usage stats: %w", err)
	}
	if stats.TotalRequests == 0 {
		pterm.Info.Println("No usage recorded for the requested window.")
		return nil
	}

	pterm.DefaultSection.Println("Usage")
	fmt.Printf("Requests:     %d (%.0f%% success)\n", stats.TotalRequests, stats.SuccessRate*100)
	fmt.Printf("Tokens:       %d\n", stats.TotalTokens)
	fmt.Printf("Est. cost:    $%.4f\n", stats.TotalCost)
	fmt.Printf("Models used:  %d\n", stats.UniqueModels)

	models, err := t.GetModelBreakdown(since)
	if err != nil {
		return fmt.Errorf("failed to read model breakdown: %w", err)
	}
	if len(models) > 0 {
		pterm.DefaultSection.Println("By model")
		data := pterm.TableData{{"Model", "Requests", "Tokens", "Cost"}}
		for _, m := range models {
			data = append(data, []string{
				m.ModelName,
				fmt.Sprintf("%d", m.RequestCount),
				fmt.Sprintf("%d", m.TotalTokens),
				fmt.Sprintf("$%.4f", m.TotalCost),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}

	techniques, err := t.GetTechniqueBreakdown(since)
	if err != nil {
		return fmt.Errorf("failed to read technique breakdown: %w", err)
	}
	if len(techniques) > 0 {
		pterm.DefaultSection.Println("By technique")
		data := pterm.TableData{{"Technique", "Requests", "Tokens", "Cost"}}
		for _, tb := range techniques {
			data = append(data, []string{
				tb.Technique,
				fmt.Sprintf("%d", tb.RequestCount),
				fmt.Sprintf("%d", tb.TotalTokens),
				fmt.Sprintf("$%.4f", tb.TotalCost),
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
	}

	return nil
}
