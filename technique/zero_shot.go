package technique

import (
	"context"
	"fmt"
	"strings"
)

// EmotionPrompting directs the model to approach a task with a specific
// emotion, influencing the tone, style and framing of its response.
type EmotionPrompting struct {
	Base
}

// NewEmotionPrompting builds the Emotion Prompting technique.
func NewEmotionPrompting() *EmotionPrompting {
	return &EmotionPrompting{
		Base: NewBase(
			"Emotion Prompting",
			"2.2.2.1",
			"Incorporates emotional cues in prompts to guide responses.",
		),
	}
}

// GeneratePrompt honors WithEmotion (default "excited"), WithIntensity and
// WithBackground.
func (t *EmotionPrompting) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	emotion := o.Emotion
	if emotion == "" {
		emotion = "excited"
	}
	intensityPhrase := emotion
	if o.Intensity != "" {
		intensityPhrase = o.Intensity + " " + emotion
	}

	return fmt.Sprintf(Dedent(`
		As an AI assistant, I want you to respond with %s energy to this task.

		%s

		Task: %s

		When responding:
		- Express genuine %s about this topic
		- Use language that conveys %s (tone, word choice, pacing)
		- Maintain this emotional perspective throughout your response
		- Still prioritize accuracy and helpfulness

		Begin your response now, showing your %s perspective:
	`), intensityPhrase, o.Background, input, emotion, emotion, emotion), nil
}

// RolePrompting instructs the model to adopt a persona (expert, teacher,
// doctor) when responding, shifting perspective, depth and style.
type RolePrompting struct {
	Base
}

// NewRolePrompting builds the Role Prompting technique.
func NewRolePrompting() *RolePrompting {
	return &RolePrompting{
		Base: NewBase(
			"Role Prompting",
			"2.2.2.2",
			"Assigns a specific role to the model to guide its responses.",
		),
	}
}

// GeneratePrompt honors WithRole (default "expert"), WithField,
// WithExperience and WithAudience.
func (t *RolePrompting) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	role := o.Role
	if role == "" {
		role = "expert"
	}
	field := o.Field
	if field == "" {
		field = "this field"
	}
	experienceRole := role
	if o.Experience != "" {
		experienceRole = o.Experience + " " + role
	}
	audience := ""
	if o.Audience != "" {
		audience = fmt.Sprintf("Your target audience is %s. ", o.Audience)
	}

	return fmt.Sprintf(Dedent(`
		I want you to assume the role of a %s in %s. Think about the knowledge, perspective, and communication style that a real %s would have.

		%sGiven your expertise as a %s, please address the following:

		%s

		When responding:
		- Use terminology, concepts, and frameworks common in %s
		- Apply the analytical approach typical of a %s
		- Structure your response as a %s would in a professional context
		- Draw on specialized knowledge available to someone in this role
		- Maintain this perspective throughout your entire response

		Your response as a %s:
	`), experienceRole, field, role, audience, role, input, field, role, role, role), nil
}

// SelfAsk structures the prompt so the model identifies relevant
// sub-questions, answers them, and synthesizes those answers into a final
// response.
type SelfAsk struct {
	Base
}

// NewSelfAsk builds the Self-Ask technique.
func NewSelfAsk() *SelfAsk {
	return &SelfAsk{
		Base: NewBase(
			"Self-Ask",
			"2.2.2.3",
			"Prompts the model to ask and answer its own questions.",
		),
	}
}

// GeneratePrompt honors WithNumQuestions (default 3), WithDepth (default
// "moderate") and WithDomain.
func (t *SelfAsk) GeneratePrompt(_ context.Context, input string, opts ...Option) (string, error) {
	if err := validateInput(input); err != nil {
		return "", err
	}
	o := buildOptions(opts)

	numQuestions := o.NumQuestions
	if numQuestions <= 0 {
		numQuestions = 3
	}
	domainSuffix := ""
	if o.Domain != "" {
		domainSuffix = " in the domain of " + o.Domain
	}

	depthGuidance := map[string]string{
		"shallow":  "focus on basic clarifications and direct implications",
		"moderate": "explore key factors, important connections, and significant implications",
		"deep":     "delve into underlying principles, complex interconnections, and explore nuanced aspects",
	}[o.Depth]
	if depthGuidance == "" {
		depthGuidance = "explore key factors, important connections, and significant implications"
	}

	questions := make([]string, 0, numQuestions)
	for i := 1; i <= numQuestions; i++ {
		questions = append(questions, fmt.Sprintf(
			"%d. [Ask a specific, focused question that helps address an important aspect of the main question%s]\n[Provide a clear, evidence-based answer to this question]",
			i, domainSuffix))
	}

	return fmt.Sprintf(Dedent(`
		Main Question: %s

		To thoroughly answer this question, I'll use a self-questioning approach. I'll identify and answer %d key follow-up questions that will help me build toward a comprehensive response. For each question, I'll %s.

		%s

		Now, synthesizing all the information from my self-questioning process:

		Final comprehensive answer to the original question:
	`), input, numQuestions, depthGuidance, strings.Join(questions, "\n\n")), nil
}
