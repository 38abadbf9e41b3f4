package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/proctorhq/proctor/ai/provider"
	"github.com/proctorhq/proctor/ai/tracker"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/embedding"
	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
	"github.com/proctorhq/proctor/technique"
)

// RunCmd renders a technique prompt and optionally executes it.
var RunCmd = &cobra.Command{
	Use:   "run <technique> <input>",
	Short: "Render or execute a technique on an input",
	Long: `Render a technique's prompt for the given input and execute it
against the configured model backend.

Example pools for few-shot techniques are YAML files: either a bare list
of {input, output} entries or a document with a top-level "examples" key.

Examples:
  proctor run chain_of_thought "Solve 12*13"
  proctor run knn "classify: sparrow" --examples pool.yaml --k 2
  proctor run role_prompting "Explain inflation" --system "Be brief." --dry-run`,
	Args: cobra.ExactArgs(2),
	RunE: runRun,
}

var (
	runSystemPrompt string
	runExamplesPath string
	runK            int
	runModel        string
	runDryRun       bool
)

func init() {
	RunCmd.Flags().StringVar(&runSystemPrompt, "system", "", "System prompt for the model")
	RunCmd.Flags().StringVar(&runExamplesPath, "examples", "", "Path to a YAML example pool")
	RunCmd.Flags().IntVar(&runK, "k", 0, "How many examples to select from the pool")
	RunCmd.Flags().StringVar(&runModel, "model", "", "Model override")
	RunCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the rendered prompt without invoking a model")
}

func runRun(cmd *cobra.Command, args []string) error {
	key, input := args[0], args[1]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	selector, err := buildSelector(cfg)
	if err != nil {
		return err
	}
	registry := technique.DefaultRegistry(selector)

	tech, err := registry.Get(key)
	if err != nil {
		return fmt.Errorf("unknown technique %q (try 'proctor list')", key)
	}

	var opts []technique.Option
	if runExamplesPath != "" {
		pool, err := retrieval.LoadPool(runExamplesPath)
		if err != nil {
			return fmt.Errorf("failed to load example pool: %w", err)
		}
		opts = append(opts, technique.WithExamples(pool))
	}
	if runK > 0 {
		opts = append(opts, technique.WithK(runK))
	}

	if runDryRun {
		prompt, err := tech.GeneratePrompt(cmd.Context(), input, opts...)
		if err != nil {
			return err
		}
		fmt.Println(prompt)
		return nil
	}

	db, err := tracker.Open(cfg.GetDatabasePath())
	if err != nil {
		pterm.Warning.Printf("Usage tracking unavailable: %v\n", err)
		db = nil
	} else {
		defer db.Close()
	}

	client := provider.NewAIClient(cfg, db, 0, "run", "technique", technique.Slug(tech.Name()))
	executor := technique.NewExecutor(client)

	req := technique.ExecuteRequest{
		Input:         input,
		SystemPrompt:  runSystemPrompt,
		PromptOptions: opts,
	}
	if runModel != "" {
		req.Model = &runModel
	}

	response, err := executor.Execute(cmd.Context(), tech, req)
	if err != nil {
		if errors.IsRetryExhausted(err) {
			pterm.Error.Println("The model backend kept failing; try again later.")
		}
		return err
	}

	fmt.Println(response)
	return nil
}

// buildSelector constructs the example selector from configuration. The
// embedding provider is only built when the semantic strategy needs it.
func buildSelector(cfg *config.Config) (retrieval.Selector, error) {
	var embProvider embedding.Provider
	if cfg.Retrieval.Strategy == "" || cfg.Retrieval.Strategy == config.StrategySemantic {
		p, err := embedding.NewProvider(cfg.Embeddings)
		if err != nil {
			return nil, fmt.Errorf("failed to build embedding provider: %w", err)
		}
		embProvider = p
	}
	selector, err := retrieval.NewSelector(cfg.Retrieval, embProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to build example selector: %w", err)
	}
	return selector, nil
}
