package technique

import (
	"context"
	"fmt"
)

// Decomp guides the model to break a complex problem into simpler
// subproblems, solve each, and combine the solutions.
type Decomp struct {
	Base
}

// NewDecomp builds the DECOMP technique.
func NewDecomp() *Decomp {
	return &Decomp{
		Base: NewBase(
			"DECOMP",
			"2.2.4",
			"Breaks down complex problems into simpler subproblems.",
		),
	}
}

func (t *Decomp) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}

	return fmt.Sprintf(Dedent(`
		Complex Problem: %s

		Let's break this down into simpler, manageable subproblems:

		Subproblem 1: [Identify and describe the first subproblem]
		Solution to Subproblem 1:
		[Solve the first subproblem]

		Subproblem 2: [Identify and describe the second subproblem, possibly depending on the first]
		Solution to Subproblem 2:
		[Solve the second subproblem]

		Subproblem 3: [Identify and describe the third subproblem... continue as needed]
		Solution to Subproblem 3:
		[Solve the third subproblem]

		Now, combine the solutions to the subproblems to address the original complex problem:
		[Synthesis of subproblem solutions]

		Therefore, the final answer to the original complex problem is:
		[Final answer]
	`), input), nil
}
