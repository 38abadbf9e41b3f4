package technique

import (
	"context"
	"fmt"
	"strings"
)

// ChainOfVerification asks the model to produce an initial solution and
// then verify each step against explicit checks before giving a final
// answer.
type ChainOfVerification struct {
	Base
}

// NewChainOfVerification builds the Chain-of-Verification technique.
func NewChainOfVerification() *ChainOfVerification {
	return &ChainOfVerification{
		Base: NewBase(
			"Chain-of-Verification",
			"2.2.6",
			"Reviews and verifies each step of reasoning.",
		),
	}
}

// GeneratePrompt honors WithNumSteps (default 3), WithDomain,
// WithVerificationAspects and WithVerificationIntensity.
func (t *ChainOfVerification) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	numSteps := o.NumSteps
	if numSteps <= 0 {
		numSteps = 3
	}
	domainContext := ""
	if o.Domain != "" {
		domainContext = fmt.Sprintf(" in the %s context", o.Domain)
	}
	aspects := o.VerificationAspects
	if len(aspects) == 0 {
		aspects = []string{
			"factual correctness",
			"logical consistency",
			"completeness of analysis",
			"appropriateness of methods used",
		}
	}
	intensity := o.VerificationIntensity
	if intensity == "" {
		intensity = "thorough"
	}
	level := map[string]string{
		"basic":    "Check for obvious errors and inconsistencies.",
		"thorough": "Carefully examine assumptions, methods, and conclusions for validity and completeness.",
		"rigorous": "Conduct an exhaustive verification, challenging every aspect of the solution with alternative perspectives.",
	}[intensity]
	if level == "" {
		level = "Carefully examine assumptions, methods, and conclusions for validity and completeness."
	}

	solutionSteps := make([]string, 0, numSteps)
	for i := 1; i <= numSteps; i++ {
		solutionSteps = append(solutionSteps, fmt.Sprintf("%d. [Solution step %d]", i, i))
	}

	var verification strings.Builder
	for i := 1; i <= numSteps; i++ {
		fmt.Fprintf(&verification, `
## Verification of Step %d:

- **Original Step %d:** [Restate the step to ensure clear focus]

- **Verification Checklist:**
  - Are the assumptions valid? [Assess]
  - Is the approach appropriate? [Evaluate]
  - Are calculations/reasoning correct? [Verify]
  - Is the step addressing the right aspect of the problem? [Check]

- **Critical Assessment:**
  - Potential issues or weaknesses: [Identify]
  - Alternative approaches to consider: [Suggest]

- **Refinement:**
  - [Provide corrected/improved version of step %d]
`, i, i, i)
	}

	return fmt.Sprintf(Dedent(`
		# Problem Analysis and Self-Verification%s

		## Problem Statement:
		%s

		## Verification Approach:
		I will first generate an initial solution, then critically verify each step using a %s approach. I will check specifically for issues with: %s.

		%s

		## Initial Solution:
		%s
		%s
		## Overall Verification:

		- **Consistency Check:** [Do all verified steps fit together into a coherent solution?]
		- **Completeness Check:** [Does the solution fully address the original problem?]

		## Final Verified Answer:
		[State the final answer after all verification and refinement]
	`), domainContext, input, intensity, strings.Join(aspects, ", "),
		level, strings.Join(solutionSteps, "\n"), verification.String()), nil
}
