package technique

import (
	"context"
	"fmt"
	"strings"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
)

// DefaultKNNExamples is how many neighbors KNN renders when WithK is not
// given.
const DefaultKNNExamples = 3

// ExampleGeneration renders a classic few-shot prompt from a list of
// input/output examples.
type ExampleGeneration struct {
	Base
}

// NewExampleGeneration builds the Example Generation technique.
func NewExampleGeneration() *ExampleGeneration {
	return &ExampleGeneration{
		Base: NewBase(
			"Example Generation",
			"2.2.1.1",
			"Generates examples for few-shot learning.",
		),
	}
}

// GeneratePrompt honors WithExamples; placeholder examples are rendered
// when none are supplied.
func (t *ExampleGeneration) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	examples := o.Examples
	if len(examples) == 0 {
		examples = []retrieval.Example{
			{Input: "Example input 1", Output: "Example output 1"},
			{Input: "Example input 2", Output: "Example output 2"},
			{Input: "Example input 3", Output: "Example output 3"},
		}
	}

	return fmt.Sprintf(Dedent(`
		I'll show you some examples of how to solve this type of problem:

		%s

		Now, please solve the following:
		Input: %s
		Output:
	`), formatExamples(examples), input), nil
}

// KNN renders a few-shot prompt from the pool examples nearest to the
// input, ranked by the injected selector. The selection strategy (semantic
// or random) is a configuration decision made when the selector is built,
// never a silent fallback here.
type KNN struct {
	Base
	selector retrieval.Selector
}

// NewKNN builds the KNN technique around a selector.
func NewKNN(selector retrieval.Selector) *KNN {
	return &KNN{
		Base: NewBase(
			"KNN",
			"2.2.1.2",
			"Selects the k nearest examples to the input for few-shot prompting.",
		),
		selector: selector,
	}
}

// GeneratePrompt honors WithExamples (the candidate pool) and WithK
// (default 3). An empty pool renders a placeholder rather than failing.
func (t *KNN) GeneratePrompt(ctx context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	if t.selector == nil {
		return "", errors.Wrap(errors.ErrDependencyUnavailable, "knn technique requires an example selector")
	}
	o := buildOptions(opts)

	k := o.K
	if k <= 0 {
		k = DefaultKNNExamples
	}

	examplesText := "[No similar examples found]"
	if len(o.Examples) > 0 {
		ranked, err := t.selector.Select(ctx, input, o.Examples, k)
		if err != nil {
			return "", errors.Wrap(err, "knn example selection failed")
		}
		if len(ranked) > 0 {
			selected := make([]retrieval.Example, len(ranked))
			for i, r := range ranked {
				selected[i] = r.Example
			}
			examplesText = formatExamples(selected)
		}
	}

	return fmt.Sprintf(Dedent(`
		Here are some examples that seem most relevant to your query:

		%s

		Now, for your query:
		Input: %s
		Output:
	`), examplesText, input), nil
}

func formatExamples(examples []retrieval.Example) string {
	parts := make([]string, 0, len(examples))
	for _, ex := range examples {
		parts = append(parts, fmt.Sprintf("Input: %s\nOutput: %s", ex.Input, ex.Output))
	}
	return strings.Join(parts, "\n\n")
}
