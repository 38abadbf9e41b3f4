package technique

import (
	"context"
	"fmt"
	"strings"
)

// SelfConsistency asks the model to solve the problem through several
// independent reasoning paths and determine a consensus answer.
type SelfConsistency struct {
	Base
}

// NewSelfConsistency builds the Self-Consistency technique.
func NewSelfConsistency() *SelfConsistency {
	return &SelfConsistency{
		Base: NewBase(
			"Self-Consistency",
			"2.2.5",
			"Generates multiple reasoning paths and finds consensus.",
		),
	}
}

// GeneratePrompt honors WithNumPaths (default 3), WithDomain and
// WithPathLength.
func (t *SelfConsistency) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	numPaths := o.NumPaths
	if numPaths <= 0 {
		numPaths = 3
	}
	domainContext := ""
	if o.Domain != "" {
		domainContext = fmt.Sprintf(" in the %s domain", o.Domain)
	}
	lengthGuidance := map[string]string{
		"brief":    "Keep each reasoning path concise, focusing on key insights.",
		"standard": "Provide a balanced level of detail in each reasoning path.",
		"detailed": "Elaborate thoroughly on each reasoning path, exploring nuances.",
	}[o.PathLength]
	if lengthGuidance == "" {
		lengthGuidance = "Provide a balanced level of detail in each reasoning path."
	}

	var paths strings.Builder
	for i := 1; i <= numPaths; i++ {
		fmt.Fprintf(&paths, `Path %d:
[Start with a distinct approach to the problem]
[Develop this approach step by step with clear reasoning]
[Maintain logical consistency throughout this path]
[Draw a specific conclusion based solely on this path's reasoning]

Conclusion %d: [Specific answer derived from path %d]

`, i, i, i)
	}

	return fmt.Sprintf(Dedent(`
		# Multiple-Path Problem Solving%s

		## Problem Statement:
		%s

		## Approach:
		I will solve this problem through %d independent reasoning paths. %s

		Key guidelines for this multi-path analysis:
		- Ensure each path uses a substantially different approach or perspective
		- Avoid simply rephrasing the same reasoning with minor variations

		## Independent Reasoning Paths:
		%s
		## Analysis of Results:

		- **Summary of Conclusions:**
		  [List each conclusion with a count if any are identical]

		- **Comparative Analysis:**
		  [Analyze the similarities and differences between the paths]
		  [Identify strengths and weaknesses of each approach]

		- **Confidence Assessment:**
		  [Evaluate relative confidence in each path based on rigor, completeness, and logical soundness]

		## Consensus Determination:

		Based on the multiple reasoning paths, the most reliable conclusion is:
		[Provide the final answer with justification for why it represents the best consensus]
	`), domainContext, input, numPaths, lengthGuidance, paths.String()), nil
}
