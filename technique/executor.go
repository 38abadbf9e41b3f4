package technique

import (
	"context"
	"strings"

	"github.com/proctorhq/proctor/ai/openrouter"
	"github.com/proctorhq/proctor/ai/provider"
	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/logger"
)

// ExecuteRequest carries the input and per-call overrides for a single
// technique execution.
type ExecuteRequest struct {
	Input         string
	SystemPrompt  string
	Temperature   *float64
	MaxTokens     *int
	Model         *string
	PromptOptions []Option
}

// Executor renders a technique's prompt and sends it to the model client.
// Invocation failures carry the transient/permanent classification applied
// by the client.
type Executor struct {
	client provider.AIClient
}

// NewExecutor builds an executor around the given client.
func NewExecutor(client provider.AIClient) *Executor {
	return &Executor{client: client}
}

// GeneratePrompt renders the prompt without invoking the model.
func (e *Executor) GeneratePrompt(ctx context.Context, t Technique, input string, opts ...Option) (string, error) {
	if t == nil {
		return "", errors.NewInvalidRequestError("technique must not be nil")
	}
	return t.GeneratePrompt(ctx, input, opts...)
}

// Execute renders the prompt for req.Input and returns the model's
// response text.
func (e *Executor) Execute(ctx context.Context, t Technique, req ExecuteRequest) (string, error) {
	if t == nil {
		return "", errors.NewInvalidRequestError("technique must not be nil")
	}
	if e.client == nil {
		return "", errors.Wrap(errors.ErrDependencyUnavailable, "executor has no model client")
	}

	prompt, err := t.GeneratePrompt(ctx, req.Input, req.PromptOptions...)
	if err != nil {
		return "", errors.Wrapf(err, "technique %q failed to generate prompt", t.Name())
	}

	logger.Infow("executing technique",
		"technique", t.Name(),
		"identifier", t.Identifier(),
		"prompt_length", len(prompt))

	resp, err := e.client.Chat(ctx, openrouter.ChatRequest{
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   prompt,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Model:        req.Model,
	})
	if err != nil {
		return "", errors.Wrapf(err, "technique %q invocation failed", t.Name())
	}

	logger.Debugw("technique execution complete",
		"technique", t.Name(),
		"model", resp.Model,
		"total_tokens", resp.Usage.TotalTokens)

	return strings.TrimSpace(resp.Content), nil
}
