package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/proctorhq/proctor/technique"
)

// ListCmd prints the technique catalog.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the technique catalog",
	Long: `List the available prompting techniques.

Identifiers follow the Prompt Report taxonomy; use --category to filter
by identifier prefix.

Examples:
  proctor list                  # Full catalog
  proctor list --category 2.2.1 # Few-shot techniques only`,
	RunE: runList,
}

var listCategory string

func init() {
	ListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by identifier prefix (e.g. 2.2.3)")
}

func runList(cmd *cobra.Command, args []string) error {
	// No selector needed to list metadata.
	registry := technique.DefaultRegistry(nil)
	techniques := registry.List(listCategory)
	if len(techniques) == 0 {
		pterm.Warning.Printf("No techniques match category %q\n", listCategory)
		return nil
	}

	data := pterm.TableData{{"Key", "Identifier", "Name", "Description"}}
	for _, t := range techniques {
		data = append(data, []string{
			technique.Slug(t.Name()),
			t.Identifier(),
			t.Name(),
			t.Description(),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
