package config

import "github.com/proctorhq/proctor/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to "proctor.db"

	if c.OpenRouter.Temperature != nil {
		t := *c.OpenRouter.Temperature
		if t < 0 || t > 2 {
			return errors.Newf("openrouter.temperature must be in [0, 2], got %f", t)
		}
	}
	if c.OpenRouter.MaxTokens != nil && *c.OpenRouter.MaxTokens <= 0 {
		return errors.Newf("openrouter.max_tokens must be > 0, got %d (omit for default)", *c.OpenRouter.MaxTokens)
	}
	if c.OpenRouter.TimeoutSeconds < 0 {
		return errors.Newf("openrouter.timeout_seconds must be >= 0, got %d", c.OpenRouter.TimeoutSeconds)
	}

	// Validate local inference configuration only when enabled
	if c.LocalInference.Enabled {
		if c.LocalInference.BaseURL == "" {
			return errors.New("local_inference.base_url cannot be empty when enabled")
		}
		if c.LocalInference.Model == "" {
			return errors.New("local_inference.model cannot be empty when enabled")
		}
		if c.LocalInference.TimeoutSeconds <= 0 {
			return errors.Newf("local_inference.timeout_seconds must be > 0, got %d", c.LocalInference.TimeoutSeconds)
		}
	}

	switch c.Embeddings.Provider {
	case "", "openai", "ollama", "local":
	default:
		return errors.Newf("embeddings.provider must be one of openai, ollama, local; got %q", c.Embeddings.Provider)
	}
	if c.Embeddings.TimeoutSeconds < 0 {
		return errors.Newf("embeddings.timeout_seconds must be >= 0, got %d", c.Embeddings.TimeoutSeconds)
	}

	// Retrieval strategy is an explicit choice, never inferred
	switch c.Retrieval.Strategy {
	case StrategySemantic, StrategyRandom:
	default:
		return errors.Newf("retrieval.strategy must be %q or %q, got %q", StrategySemantic, StrategyRandom, c.Retrieval.Strategy)
	}
	if c.Retrieval.K < 0 {
		return errors.Newf("retrieval.k must be >= 0, got %d", c.Retrieval.K)
	}

	if c.Invocation.MaxAttempts < 1 {
		return errors.Newf("invocation.max_attempts must be >= 1, got %d", c.Invocation.MaxAttempts)
	}
	if c.Invocation.BaseDelayMs < 0 {
		return errors.Newf("invocation.base_delay_ms must be >= 0, got %d", c.Invocation.BaseDelayMs)
	}
	if c.Invocation.MaxDelayMs < 0 {
		return errors.Newf("invocation.max_delay_ms must be >= 0, got %d", c.Invocation.MaxDelayMs)
	}
	if c.Invocation.MaxDelayMs > 0 && c.Invocation.BaseDelayMs > c.Invocation.MaxDelayMs {
		return errors.Newf("invocation.base_delay_ms (%d) cannot exceed invocation.max_delay_ms (%d)",
			c.Invocation.BaseDelayMs, c.Invocation.MaxDelayMs)
	}
	if c.Invocation.RequestsPerMinute < 0 {
		return errors.Newf("invocation.requests_per_minute must be >= 0, got %d", c.Invocation.RequestsPerMinute)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.Newf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}

	return nil
}
