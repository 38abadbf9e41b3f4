// Package provider selects and constructs the model client used to
// execute technique prompts: local inference or OpenRouter.
package provider

import (
	"context"
	"database/sql"
	"time"

	"github.com/proctorhq/proctor/ai/openrouter"
	"github.com/proctorhq/proctor/ai/retry"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/errors"
)

// Provider represents an LLM provider type
type Provider string

const (
	// ProviderLocal uses local inference (Ollama, LocalAI)
	ProviderLocal Provider = "local"
	// ProviderOpenRouter uses OpenRouter.ai API
	ProviderOpenRouter Provider = "openrouter"
	// ProviderAuto automatically selects based on configuration
	ProviderAuto Provider = "auto"
)

// AIClient interface for all LLM providers
// Ensures compatibility between different providers
type AIClient interface {
	Chat(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error)
}

// ClientConfig holds common configuration for creating AI clients
type ClientConfig struct {
	DB            *sql.DB
	Verbosity     int
	OperationType string
	EntityType    string
	EntityID      string
}

// NewAIClient creates an AI client based on configuration (auto-selection)
// Priority: LocalInference (if enabled) → OpenRouter
func NewAIClient(cfg *config.Config, db *sql.DB, verbosity int, operationType, entityType, entityID string) AIClient {
	clientCfg := ClientConfig{
		DB:            db,
		Verbosity:     verbosity,
		OperationType: operationType,
		EntityType:    entityType,
		EntityID:      entityID,
	}
	return NewAIClientWithProvider(cfg, ProviderAuto, clientCfg)
}

// NewAIClientWithProvider creates an AI client for a specific provider
// Use ProviderAuto to let the factory decide based on configuration
func NewAIClientWithProvider(cfg *config.Config, provider Provider, clientCfg ClientConfig) AIClient {
	switch provider {
	case ProviderLocal:
		return newLocalClient(cfg, clientCfg)
	case ProviderOpenRouter:
		return newOpenRouterClient(cfg, clientCfg)
	case ProviderAuto:
		return autoSelectClient(cfg, clientCfg)
	default:
		// Unknown provider, fall back to auto
		return autoSelectClient(cfg, clientCfg)
	}
}

// autoSelectClient automatically selects the best available provider
// Priority: LocalInference (if enabled) → OpenRouter
func autoSelectClient(cfg *config.Config, clientCfg ClientConfig) AIClient {
	if cfg.LocalInference.Enabled {
		return newLocalClient(cfg, clientCfg)
	}
	return newOpenRouterClient(cfg, clientCfg)
}

// retryPolicyFromConfig builds the shared backoff policy for model calls
func retryPolicyFromConfig(cfg *config.Config) *retry.Policy {
	maxAttempts := cfg.Invocation.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = retry.DefaultMaxAttempts
	}
	baseDelay := time.Duration(cfg.Invocation.BaseDelayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = retry.DefaultBaseDelay
	}
	maxDelay := time.Duration(cfg.Invocation.MaxDelayMs) * time.Millisecond
	if maxDelay <= 0 {
		maxDelay = retry.DefaultMaxDelay
	}
	return retry.NewPolicy(maxAttempts, baseDelay, maxDelay, errors.IsTransient)
}

// newLocalClient creates a local inference client
func newLocalClient(cfg *config.Config, clientCfg ClientConfig) AIClient {
	return NewLocalClient(LocalClientConfig{
		BaseURL:        cfg.LocalInference.BaseURL,
		Model:          cfg.LocalInference.Model,
		TimeoutSeconds: cfg.LocalInference.TimeoutSeconds,
		ContextSize:    cfg.LocalInference.ContextSize,
		Retry:          retryPolicyFromConfig(cfg),
	})
}

// newOpenRouterClient creates an OpenRouter API client
func newOpenRouterClient(cfg *config.Config, clientCfg ClientConfig) AIClient {
	return openrouter.NewClient(openrouter.Config{
		APIKey:            cfg.OpenRouter.APIKey,
		BaseURL:           cfg.OpenRouter.BaseURL,
		Model:             cfg.OpenRouter.Model,
		Temperature:       cfg.OpenRouter.Temperature,
		MaxTokens:         cfg.OpenRouter.MaxTokens,
		TimeoutSeconds:    cfg.OpenRouter.TimeoutSeconds,
		RequestsPerMinute: cfg.Invocation.RequestsPerMinute,
		Retry:             retryPolicyFromConfig(cfg),
		DB:                clientCfg.DB,
		Verbosity:         clientCfg.Verbosity,
		OperationType:     clientCfg.OperationType,
		EntityType:        clientCfg.EntityType,
		EntityID:          clientCfg.EntityID,
	})
}

// GetAvailableProviders returns a list of configured/available providers
func GetAvailableProviders(cfg *config.Config) []Provider {
	var providers []Provider

	if cfg.LocalInference.Enabled {
		providers = append(providers, ProviderLocal)
	}

	if cfg.OpenRouter.APIKey != "" {
		providers = append(providers, ProviderOpenRouter)
	}

	return providers
}

// ParseProvider converts a string to a Provider type
func ParseProvider(s string) (Provider, error) {
	switch s {
	case "local", "ollama", "localai":
		return ProviderLocal, nil
	case "openrouter", "or":
		return ProviderOpenRouter, nil
	case "auto", "":
		return ProviderAuto, nil
	default:
		return "", errors.Newf("unknown provider: %s (valid: local, openrouter, auto)", s)
	}
}

// Verify interfaces are implemented
var _ AIClient = (*openrouter.Client)(nil)
var _ AIClient = (*LocalClient)(nil)
