package config

import "fmt"

// Config represents the core proctor configuration
type Config struct {
	Database       DatabaseConfig       `mapstructure:"database"`
	OpenRouter     OpenRouterConfig     `mapstructure:"openrouter"`
	LocalInference LocalInferenceConfig `mapstructure:"local_inference"`
	Embeddings     EmbeddingsConfig     `mapstructure:"embeddings"`
	Retrieval      RetrievalConfig      `mapstructure:"retrieval"`
	Invocation     InvocationConfig     `mapstructure:"invocation"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// DatabaseConfig configures the SQLite database used for usage tracking
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// OpenRouterConfig configures OpenRouter.ai API access
type OpenRouterConfig struct {
	APIKey         string   `mapstructure:"api_key"`         // OpenRouter API key
	BaseURL        string   `mapstructure:"base_url"`        // API base URL (default: https://openrouter.ai/api/v1)
	Model          string   `mapstructure:"model"`           // Default model (e.g., "openai/gpt-4o-mini")
	Temperature    *float64 `mapstructure:"temperature"`     // Sampling temperature (nil = default 0.2)
	MaxTokens      *int     `mapstructure:"max_tokens"`      // Maximum tokens per request (nil = default 1000)
	TimeoutSeconds int      `mapstructure:"timeout_seconds"` // Request timeout in seconds
}

// LocalInferenceConfig configures local model inference (Ollama, LocalAI, etc.)
type LocalInferenceConfig struct {
	Enabled        bool   `mapstructure:"enabled"`         // Enable local inference instead of cloud APIs
	BaseURL        string `mapstructure:"base_url"`        // e.g., "http://localhost:11434" for Ollama
	Model          string `mapstructure:"model"`           // e.g., "mistral", "qwen2.5-coder:7b"
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Request timeout in seconds
	ContextSize    *int   `mapstructure:"context_size"`    // Context window size (nil = model default)
}

// EmbeddingsConfig configures the embedding provider used for semantic
// example selection
type EmbeddingsConfig struct {
	Provider       string `mapstructure:"provider"`        // openai, ollama, or local
	BaseURL        string `mapstructure:"base_url"`        // Provider endpoint override
	Model          string `mapstructure:"model"`           // e.g., "text-embedding-3-small", "nomic-embed-text"
	APIKey         string `mapstructure:"api_key"`         // API key for hosted providers
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Request timeout in seconds
}

// RetrievalConfig configures example selection for few-shot prompting
type RetrievalConfig struct {
	Strategy string `mapstructure:"strategy"` // semantic or random
	K        int    `mapstructure:"k"`        // Number of examples to select (default: 3)
}

// InvocationConfig configures retry and rate limiting for model calls
type InvocationConfig struct {
	MaxAttempts       int `mapstructure:"max_attempts"`        // Total attempts including the first (default: 3)
	BaseDelayMs       int `mapstructure:"base_delay_ms"`       // Initial backoff delay in milliseconds
	MaxDelayMs        int `mapstructure:"max_delay_ms"`        // Backoff delay ceiling in milliseconds
	RequestsPerMinute int `mapstructure:"requests_per_minute"` // 0 = no client-side rate limit
}

// LoggingConfig configures log output
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	JSON  bool   `mapstructure:"json"`  // Emit structured JSON instead of console output
}

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// Retrieval strategy identifiers
const (
	StrategySemantic = "semantic"
	StrategyRandom   = "random"
)

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "proctor.db" // Fallback default
	}
	return c.Database.Path
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Retrieval: {Strategy: %s, K: %d}, OpenRouter: {Model: %s}}",
		c.Database.Path, c.Retrieval.Strategy, c.Retrieval.K, c.OpenRouter.Model)
}
