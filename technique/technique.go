// Package technique implements the prompt-engineering catalog: each
// technique renders an input into a structured prompt, and the Executor
// sends rendered prompts to a model client.
package technique

import (
	"context"
	"strings"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
)

// Technique renders prompts for a single prompting strategy. Identifiers
// follow the Prompt Report taxonomy (for example "2.2.3" for
// Chain-of-Thought) so the catalog can be filtered by category prefix.
type Technique interface {
	Name() string
	Identifier() string
	Description() string
	GeneratePrompt(ctx context.Context, input string, opts ...Option) (string, error)
}

// Base carries the metadata shared by every technique.
type Base struct {
	name        string
	identifier  string
	description string
}

// NewBase builds the shared metadata for a technique.
func NewBase(name, identifier, description string) Base {
	return Base{name: name, identifier: identifier, description: description}
}

func (b Base) Name() string        { return b.name }
func (b Base) Identifier() string  { return b.identifier }
func (b Base) Description() string { return b.description }

func (b Base) String() string {
	return b.name + " (" + b.identifier + ")"
}

// ReasoningExample is a worked problem with its reasoning chain, used by
// Few-Shot CoT.
type ReasoningExample struct {
	Problem   string `yaml:"problem" json:"problem"`
	Reasoning string `yaml:"reasoning" json:"reasoning"`
	Answer    string `yaml:"answer" json:"answer"`
}

// Options collects the per-call knobs techniques read. Each technique
// documents which fields it honors; unrecognized fields are ignored.
type Options struct {
	// Zero-shot
	Emotion      string
	Intensity    string
	Background   string
	Role         string
	Field        string
	Experience   string
	Audience     string
	NumQuestions int
	Depth        string
	Domain       string

	// Few-shot
	Examples []retrieval.Example
	K        int

	// Thought generation
	NumSteps           int
	CustomInstructions string
	Approach           string
	DetailLevel        string
	ReasoningStyle     string
	Complexity         string
	ReasoningExamples  []ReasoningExample
	FocusAreas         []string

	// Ensembling
	NumPaths   int
	PathLength string

	// Self-criticism
	VerificationAspects   []string
	VerificationIntensity string
}

// Option mutates the per-call Options.
type Option func(*Options)

func buildOptions(opts []Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEmotion sets the emotion for Emotion Prompting.
func WithEmotion(emotion string) Option {
	return func(o *Options) { o.Emotion = emotion }
}

// WithIntensity qualifies the emotion (for example "very", "somewhat").
func WithIntensity(intensity string) Option {
	return func(o *Options) { o.Intensity = intensity }
}

// WithBackground adds framing context ahead of the task statement.
func WithBackground(background string) Option {
	return func(o *Options) { o.Background = background }
}

// WithRole sets the persona for Role Prompting.
func WithRole(role string) Option {
	return func(o *Options) { o.Role = role }
}

// WithField sets the domain of expertise for Role Prompting.
func WithField(field string) Option {
	return func(o *Options) { o.Field = field }
}

// WithExperience sets the experience qualifier (for example "senior").
func WithExperience(experience string) Option {
	return func(o *Options) { o.Experience = experience }
}

// WithAudience sets the target audience for the response.
func WithAudience(audience string) Option {
	return func(o *Options) { o.Audience = audience }
}

// WithNumQuestions sets how many follow-up questions Self-Ask poses.
func WithNumQuestions(n int) Option {
	return func(o *Options) { o.NumQuestions = n }
}

// WithDepth sets analysis depth: "shallow", "moderate" or "deep".
func WithDepth(depth string) Option {
	return func(o *Options) { o.Depth = depth }
}

// WithDomain scopes questions or reasoning to a domain.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithExamples supplies the example pool for few-shot techniques.
func WithExamples(examples []retrieval.Example) Option {
	return func(o *Options) { o.Examples = examples }
}

// WithK sets how many examples KNN selects from the pool.
func WithK(k int) Option {
	return func(o *Options) { o.K = k }
}

// WithNumSteps sets the number of reasoning steps for Chain-of-Thought.
func WithNumSteps(n int) Option {
	return func(o *Options) { o.NumSteps = n }
}

// WithCustomInstructions replaces a technique's default instruction line.
func WithCustomInstructions(instructions string) Option {
	return func(o *Options) { o.CustomInstructions = instructions }
}

// WithApproach names the reasoning approach (for example "analytical").
func WithApproach(approach string) Option {
	return func(o *Options) { o.Approach = approach }
}

// WithDetailLevel sets reasoning detail: "brief", "standard" or "detailed".
func WithDetailLevel(level string) Option {
	return func(o *Options) { o.DetailLevel = level }
}

// WithReasoningStyle names a reasoning style for Zero-Shot CoT.
func WithReasoningStyle(style string) Option {
	return func(o *Options) { o.ReasoningStyle = style }
}

// WithComplexity sets complexity guidance: "simple", "intermediate" or
// "advanced".
func WithComplexity(complexity string) Option {
	return func(o *Options) { o.Complexity = complexity }
}

// WithReasoningExamples supplies worked examples for Few-Shot CoT.
func WithReasoningExamples(examples []ReasoningExample) Option {
	return func(o *Options) { o.ReasoningExamples = examples }
}

// WithFocusAreas lists aspects the reasoning should pay attention to.
func WithFocusAreas(areas ...string) Option {
	return func(o *Options) { o.FocusAreas = areas }
}

// WithNumPaths sets how many reasoning paths Self-Consistency explores.
func WithNumPaths(n int) Option {
	return func(o *Options) { o.NumPaths = n }
}

// WithPathLength sets path detail: "brief", "standard" or "detailed".
func WithPathLength(length string) Option {
	return func(o *Options) { o.PathLength = length }
}

// WithVerificationAspects lists what Chain-of-Verification checks for.
func WithVerificationAspects(aspects ...string) Option {
	return func(o *Options) { o.VerificationAspects = aspects }
}

// WithVerificationIntensity sets verification rigor: "basic", "thorough"
// or "rigorous".
func WithVerificationIntensity(intensity string) Option {
	return func(o *Options) { o.VerificationIntensity = intensity }
}

// CompositeTechnique applies techniques in sequence: each technique's
// rendered prompt becomes the next technique's input.
type CompositeTechnique struct {
	Base
	techniques []Technique
}

// NewComposite builds a composite from the given techniques, applied in
// order.
func NewComposite(name, identifier, description string, techniques ...Technique) *CompositeTechnique {
	return &CompositeTechnique{
		Base:       NewBase(name, identifier, description),
		techniques: techniques,
	}
}

// Techniques returns the composed techniques in application order.
func (c *CompositeTechnique) Techniques() []Technique {
	out := make([]Technique, len(c.techniques))
	copy(out, c.techniques)
	return out
}

// GeneratePrompt threads the input through every composed technique.
func (c *CompositeTechnique) GeneratePrompt(ctx context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	if len(c.techniques) == 0 {
		return "", errors.NewInvalidRequestError("composite %q has no techniques", c.Name())
	}
	prompt := input
	for _, t := range c.techniques {
		rendered, err := t.GeneratePrompt(ctx, prompt, opts...)
		if err != nil {
			return "", errors.Wrapf(err, "composite %q: technique %q failed", c.Name(), t.Name())
		}
		prompt = rendered
	}
	return prompt, nil
}

func validateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.NewInvalidRequestError("input text must not be empty")
	}
	return nil
}
