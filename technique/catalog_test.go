package technique

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
)

// orderedSelector returns the pool in a fixed order with descending
// scores, so tests can assert rank order in rendered prompts.
type orderedSelector struct {
	calls int
	err   error
}

func (s *orderedSelector) Select(_ context.Context, _ string, pool []retrieval.Example, k int) ([]retrieval.RankedExample, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]retrieval.RankedExample, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, retrieval.RankedExample{
			Example: pool[i],
			Score:   1.0 - float64(i)*0.1,
		})
	}
	return out, nil
}

func TestDedent(t *testing.T) {
	got := Dedent("\n\t\tfirst line\n\n\t\tsecond line\n\t")
	assert.Equal(t, "first line\n\nsecond line", got)

	assert.Equal(t, "plain", Dedent("plain"))
	assert.Equal(t, "", Dedent("   \n\t\n"))
}

func TestEmotionPrompting(t *testing.T) {
	tech := NewEmotionPrompting()
	assert.Equal(t, "2.2.2.1", tech.Identifier())

	prompt, err := tech.GeneratePrompt(context.Background(), "Describe the ocean")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Task: Describe the ocean")
	assert.Contains(t, prompt, "excited energy")

	prompt, err = tech.GeneratePrompt(context.Background(), "Describe the ocean",
		WithEmotion("curious"), WithIntensity("very"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "very curious energy")
	assert.Contains(t, prompt, "Express genuine curious")
}

func TestRolePrompting(t *testing.T) {
	tech := NewRolePrompting()

	prompt, err := tech.GeneratePrompt(context.Background(), "Explain inflation",
		WithRole("economist"), WithField("macroeconomics"), WithExperience("senior"),
		WithAudience("undergraduates"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "role of a senior economist in macroeconomics")
	assert.Contains(t, prompt, "Your target audience is undergraduates.")
	assert.Contains(t, prompt, "Explain inflation")

	prompt, err = tech.GeneratePrompt(context.Background(), "Explain inflation")
	require.NoError(t, err)
	assert.Contains(t, prompt, "role of a expert in this field")
}

func TestSelfAsk(t *testing.T) {
	tech := NewSelfAsk()

	prompt, err := tech.GeneratePrompt(context.Background(), "Why is the sky blue?",
		WithNumQuestions(2), WithDepth("deep"), WithDomain("physics"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Main Question: Why is the sky blue?")
	assert.Contains(t, prompt, "answer 2 key follow-up questions")
	assert.Contains(t, prompt, "in the domain of physics")
	assert.Contains(t, prompt, "delve into underlying principles")
	assert.Contains(t, prompt, "1. [Ask a specific")
	assert.Contains(t, prompt, "2. [Ask a specific")
	assert.NotContains(t, prompt, "3. [Ask a specific")
}

func TestExampleGeneration(t *testing.T) {
	tech := NewExampleGeneration()

	pool := []retrieval.Example{
		{Input: "2+2", Output: "4"},
		{Input: "3+3", Output: "6"},
	}
	prompt, err := tech.GeneratePrompt(context.Background(), "5+5", WithExamples(pool))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Input: 2+2\nOutput: 4")
	assert.Contains(t, prompt, "Input: 3+3\nOutput: 6")
	assert.Contains(t, prompt, "Input: 5+5\nOutput:")

	// Placeholder examples when none supplied.
	prompt, err = tech.GeneratePrompt(context.Background(), "5+5")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Example input 1")
}

func TestKNN(t *testing.T) {
	pool := []retrieval.Example{
		{Input: "the cat sat", Output: "feline"},
		{Input: "the dog ran", Output: "canine"},
		{Input: "the fish swam", Output: "aquatic"},
	}

	t.Run("renders selected examples in rank order", func(t *testing.T) {
		sel := &orderedSelector{}
		tech := NewKNN(sel)

		prompt, err := tech.GeneratePrompt(context.Background(), "the kitten slept",
			WithExamples(pool), WithK(2))
		require.NoError(t, err)
		assert.Equal(t, 1, sel.calls)

		first := strings.Index(prompt, "Input: the cat sat")
		second := strings.Index(prompt, "Input: the dog ran")
		require.GreaterOrEqual(t, first, 0)
		require.GreaterOrEqual(t, second, 0)
		assert.Less(t, first, second)
		assert.NotContains(t, prompt, "the fish swam")
		assert.Contains(t, prompt, "Input: the kitten slept")
	})

	t.Run("empty pool renders placeholder", func(t *testing.T) {
		sel := &orderedSelector{}
		tech := NewKNN(sel)

		prompt, err := tech.GeneratePrompt(context.Background(), "query")
		require.NoError(t, err)
		assert.Contains(t, prompt, "[No similar examples found]")
		assert.Zero(t, sel.calls, "selector must not run against an empty pool")
	})

	t.Run("selector failure propagates", func(t *testing.T) {
		sel := &orderedSelector{err: errors.Wrap(errors.ErrRetrieval, "embedding backend down")}
		tech := NewKNN(sel)

		_, err := tech.GeneratePrompt(context.Background(), "query", WithExamples(pool))
		require.Error(t, err)
		assert.True(t, errors.IsRetrieval(err))
	})

	t.Run("nil selector reports missing dependency", func(t *testing.T) {
		tech := NewKNN(nil)

		_, err := tech.GeneratePrompt(context.Background(), "query", WithExamples(pool))
		require.Error(t, err)
		assert.True(t, errors.IsDependencyUnavailable(err))
	})
}

func TestChainOfThought(t *testing.T) {
	tech := NewChainOfThought(4)
	assert.Equal(t, "2.2.3", tech.Identifier())

	prompt, err := tech.GeneratePrompt(context.Background(), "Solve 12*13")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Problem/Question: Solve 12*13")
	assert.Contains(t, prompt, "1. [Identify the key components of the problem]")
	assert.Contains(t, prompt, "4. [Derive the final result based on previous steps]")
	assert.Contains(t, prompt, "Therefore, the final answer is:")

	// Constructor clamps to at least one step.
	one := NewChainOfThought(0)
	prompt, err = one.GeneratePrompt(context.Background(), "Solve 1+1")
	require.NoError(t, err)
	assert.Contains(t, prompt, "1. [Identify the key components of the problem]")
}

func TestZeroShotCoT(t *testing.T) {
	tech := NewZeroShotCoT()

	prompt, err := tech.GeneratePrompt(context.Background(), "What causes tides?",
		WithDomain("oceanography"), WithComplexity("advanced"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Let's think step by step in the domain of oceanography")
	assert.Contains(t, prompt, "Examine this comprehensively")
	assert.Contains(t, prompt, "What causes tides?")
}

func TestFewShotCoT(t *testing.T) {
	tech := NewFewShotCoT()

	t.Run("renders provided reasoning examples", func(t *testing.T) {
		examples := []ReasoningExample{
			{Problem: "p1", Reasoning: "r1", Answer: "a1"},
		}
		prompt, err := tech.GeneratePrompt(context.Background(), "new problem",
			WithReasoningExamples(examples), WithFocusAreas("units", "signs"))
		require.NoError(t, err)
		assert.Contains(t, prompt, "Problem: p1\n\nReasoning: r1\n\nAnswer: a1")
		assert.Contains(t, prompt, "Pay special attention to: units, signs")
		assert.Contains(t, prompt, "Problem: new problem")
	})

	t.Run("rejects incomplete examples", func(t *testing.T) {
		examples := []ReasoningExample{{Problem: "p", Reasoning: "", Answer: "a"}}
		_, err := tech.GeneratePrompt(context.Background(), "q", WithReasoningExamples(examples))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidRequest(err))
	})

	t.Run("uses built-in examples by default", func(t *testing.T) {
		prompt, err := tech.GeneratePrompt(context.Background(), "q")
		require.NoError(t, err)
		assert.Contains(t, prompt, "John starts with 5 apples")
	})
}

func TestSelfConsistency(t *testing.T) {
	tech := NewSelfConsistency()

	prompt, err := tech.GeneratePrompt(context.Background(), "Is 91 prime?", WithNumPaths(2))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Is 91 prime?")
	assert.Contains(t, prompt, "through 2 independent reasoning paths")
	assert.Contains(t, prompt, "Path 1:")
	assert.Contains(t, prompt, "Path 2:")
	assert.NotContains(t, prompt, "Path 3:")
	assert.Contains(t, prompt, "Consensus Determination")
}

func TestChainOfVerification(t *testing.T) {
	tech := NewChainOfVerification()

	prompt, err := tech.GeneratePrompt(context.Background(), "Summarize the causes of WWI",
		WithNumSteps(2), WithVerificationIntensity("rigorous"),
		WithVerificationAspects("dates", "causal claims"))
	require.NoError(t, err)
	assert.Contains(t, prompt, "Summarize the causes of WWI")
	assert.Contains(t, prompt, "using a rigorous approach")
	assert.Contains(t, prompt, "issues with: dates, causal claims")
	assert.Contains(t, prompt, "Verification of Step 2")
	assert.NotContains(t, prompt, "Verification of Step 3")
}

func TestDecomp(t *testing.T) {
	tech := NewDecomp()
	assert.Equal(t, "2.2.4", tech.Identifier())

	prompt, err := tech.GeneratePrompt(context.Background(), "Plan a conference")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Complex Problem: Plan a conference")
	assert.Contains(t, prompt, "Subproblem 1:")
	assert.Contains(t, prompt, "final answer to the original complex problem")
}

func TestEmptyInputRejected(t *testing.T) {
	reg := DefaultRegistry(&orderedSelector{})
	for _, key := range reg.Keys() {
		tech, err := reg.Get(key)
		require.NoError(t, err)
		_, err = tech.GeneratePrompt(context.Background(), "   ")
		assert.Truef(t, errors.IsInvalidRequest(err), "technique %s should reject blank input", key)
	}
}

func TestComposite(t *testing.T) {
	comp := NewComposite("Verified CoT", "2.2.3+2.2.6", "CoT then verification",
		NewChainOfThought(2), NewChainOfVerification())

	prompt, err := comp.GeneratePrompt(context.Background(), "Solve the puzzle")
	require.NoError(t, err)
	// The first technique's rendering is embedded inside the second's.
	assert.Contains(t, prompt, "Problem/Question: Solve the puzzle")
	assert.Contains(t, prompt, "Self-Verification")
	assert.Len(t, comp.Techniques(), 2)

	empty := NewComposite("Empty", "0", "")
	_, err = empty.GeneratePrompt(context.Background(), "input")
	assert.True(t, errors.IsInvalidRequest(err))
}
