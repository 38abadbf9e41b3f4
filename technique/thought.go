package technique

import (
	"context"
	"fmt"
	"strings"

	"github.com/proctorhq/proctor/errors"
)

// ChainOfThought guides the model through a fixed number of explicit
// reasoning steps before it commits to an answer.
type ChainOfThought struct {
	Base
	numSteps int
}

// NewChainOfThought builds a Chain-of-Thought technique with the given
// number of reasoning steps (minimum 1).
func NewChainOfThought(numSteps int) *ChainOfThought {
	if numSteps < 1 {
		numSteps = 1
	}
	return &ChainOfThought{
		Base: NewBase(
			"Chain-of-Thought",
			"2.2.3",
			"Encourages step-by-step reasoning before providing an answer.",
		),
		numSteps: numSteps,
	}
}

// GeneratePrompt honors WithNumSteps (overriding the constructor count),
// WithApproach, WithDetailLevel and WithCustomInstructions.
func (t *ChainOfThought) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	numSteps := t.numSteps
	if o.NumSteps > 0 {
		numSteps = o.NumSteps
	}

	approachText := ""
	if o.Approach != "" {
		approachText = fmt.Sprintf(" using a %s approach", o.Approach)
	}
	detailGuidance := map[string]string{
		"brief":    "Focus on key insights with minimal explanation.",
		"standard": "Provide balanced reasoning with moderate detail.",
		"detailed": "Explore nuances and provide comprehensive explanation.",
	}[o.DetailLevel]
	if detailGuidance == "" {
		detailGuidance = "Provide balanced reasoning with moderate detail."
	}

	instructions := o.CustomInstructions
	if instructions == "" {
		instructions = fmt.Sprintf("Let's work through this%s step-by-step. %s", approachText, detailGuidance)
	}

	var steps strings.Builder
	for i := 1; i <= numSteps; i++ {
		switch {
		case i == 1:
			fmt.Fprintf(&steps, "%d. [Identify the key components of the problem]\n\n", i)
		case i == numSteps:
			fmt.Fprintf(&steps, "%d. [Derive the final result based on previous steps]\n\n", i)
		default:
			fmt.Fprintf(&steps, "%d. [Apply logical reasoning to continue from previous steps]\n\n", i)
		}
	}

	return fmt.Sprintf(Dedent(`
		Problem/Question: %s

		%s

		%sTherefore, the final answer is:
	`), input, instructions, steps.String()), nil
}

// ZeroShotCoT adds a step-by-step reasoning scaffold without providing
// worked examples.
type ZeroShotCoT struct {
	Base
}

// NewZeroShotCoT builds the Zero-Shot Chain-of-Thought technique.
func NewZeroShotCoT() *ZeroShotCoT {
	return &ZeroShotCoT{
		Base: NewBase(
			"Zero-Shot CoT",
			"2.2.3.1",
			"Encourages step-by-step reasoning with a simple prompt.",
		),
	}
}

// GeneratePrompt honors WithDomain, WithReasoningStyle, WithComplexity and
// WithCustomInstructions.
func (t *ZeroShotCoT) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	domainContext := ""
	if o.Domain != "" {
		domainContext = " in the domain of " + o.Domain
	}
	styleContext := ""
	if o.ReasoningStyle != "" {
		styleContext = fmt.Sprintf(" using %s reasoning", o.ReasoningStyle)
	}
	complexityText := ""
	if guidance, ok := map[string]string{
		"simple":       "Break this down into basic steps, focusing on the core concepts.",
		"intermediate": "Analyze this methodically, considering important factors and relationships.",
		"advanced":     "Examine this comprehensively, addressing nuances and exploring deeper implications.",
	}[o.Complexity]; ok {
		complexityText = " " + guidance
	}

	instructions := o.CustomInstructions
	if instructions == "" {
		instructions = fmt.Sprintf("Let's think step by step%s%s to solve this problem:%s",
			domainContext, styleContext, complexityText)
	}

	return fmt.Sprintf(Dedent(`
		Problem/Question: %s

		%s

		1. [First, I'll identify what the problem is asking and key information provided]

		2. [Next, I'll determine an approach to solve this systematically]

		3. [I'll work through each logical step of my solution]

		4. [Finally, I'll verify my solution and formulate my answer]
	`), input, instructions), nil
}

// FewShotCoT shows worked examples of step-by-step reasoning before
// posing the new problem.
type FewShotCoT struct {
	Base
}

// NewFewShotCoT builds the Few-Shot Chain-of-Thought technique.
func NewFewShotCoT() *FewShotCoT {
	return &FewShotCoT{
		Base: NewBase(
			"Few-Shot CoT",
			"2.2.3.2",
			"Provides examples of step-by-step reasoning to guide problem-solving.",
		),
	}
}

// GeneratePrompt honors WithReasoningExamples (built-in arithmetic
// examples when absent), WithDomain, WithFocusAreas and
// WithCustomInstructions.
func (t *FewShotCoT) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	examples := o.ReasoningExamples
	if len(examples) == 0 {
		examples = []ReasoningExample{
			{
				Problem:   "If John has 5 apples and gives 2 to Mary, how many does he have left?",
				Reasoning: "John starts with 5 apples. He gives 2 apples to Mary. Subtracting the apples given away, 5 - 2 = 3 apples remain.",
				Answer:    "3 apples",
			},
			{
				Problem:   "If a train travels 120 km in 2 hours, what is its speed?",
				Reasoning: "To find speed, use the formula: speed = distance / time. The train travels 120 km in 2 hours. Therefore, speed = 120 km / 2 hours = 60 km/hour.",
				Answer:    "60 km/hour",
			},
		}
	}
	if err := validateReasoningExamples(examples); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(examples))
	for _, ex := range examples {
		parts = append(parts, fmt.Sprintf("Problem: %s\n\nReasoning: %s\n\nAnswer: %s",
			ex.Problem, ex.Reasoning, ex.Answer))
	}

	domainText := ""
	if o.Domain != "" {
		domainText = " in " + o.Domain
	}
	focusText := ""
	if len(o.FocusAreas) > 0 {
		focusText = "\n- Pay special attention to: " + strings.Join(o.FocusAreas, ", ")
	}

	instructions := o.CustomInstructions
	if instructions == "" {
		instructions = fmt.Sprintf(
			"Use the same step-by-step reasoning approach as shown in the examples to solve the following problem%s:",
			domainText)
	}

	return fmt.Sprintf(Dedent(`
		Below are examples of problems solved using effective step-by-step reasoning. Study these patterns carefully:

		%s

		%s
		%s

		Problem: %s

		I'll solve this by following a similar reasoning process:
		1. First, I'll understand what the problem is asking
		2. Then, I'll identify the key information and constraints
		3. Next, I'll apply a systematic approach similar to the examples
		4. Finally, I'll derive the answer through careful reasoning

		Reasoning:
	`), strings.Join(parts, "\n\n"), instructions, focusText, input), nil
}

func validateReasoningExamples(examples []ReasoningExample) error {
	for i, ex := range examples {
		if strings.TrimSpace(ex.Problem) == "" ||
			strings.TrimSpace(ex.Reasoning) == "" ||
			strings.TrimSpace(ex.Answer) == "" {
			return errors.NewInvalidRequestError(
				"reasoning example %d must have non-empty problem, reasoning and answer", i)
		}
	}
	return nil
}
