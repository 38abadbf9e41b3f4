package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "proctor.db")

	// OpenRouter defaults
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "openai/gpt-4o-mini") // Cost-effective default
	v.SetDefault("openrouter.temperature", 0.2)            // Deterministic
	v.SetDefault("openrouter.max_tokens", 1000)            // Token limit
	v.SetDefault("openrouter.timeout_seconds", 120)        // HTTP request timeout

	// Local Inference (Ollama) defaults
	v.SetDefault("local_inference.enabled", false)
	v.SetDefault("local_inference.base_url", "http://localhost:11434")
	v.SetDefault("local_inference.model", "llama3.2:3b")
	v.SetDefault("local_inference.timeout_seconds", 3600)

	// Embeddings defaults
	v.SetDefault("embeddings.provider", "ollama")
	v.SetDefault("embeddings.base_url", "http://localhost:11434")
	v.SetDefault("embeddings.model", "nomic-embed-text")
	v.SetDefault("embeddings.timeout_seconds", 60)

	// Retrieval defaults
	v.SetDefault("retrieval.strategy", StrategySemantic)
	v.SetDefault("retrieval.k", 3)

	// Invocation defaults
	v.SetDefault("invocation.max_attempts", 3)
	v.SetDefault("invocation.base_delay_ms", 1000)
	v.SetDefault("invocation.max_delay_ms", 30000)
	v.SetDefault("invocation.requests_per_minute", 0) // No client-side limit

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.json", false)
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	// API credentials
	v.BindEnv("openrouter.api_key", "PROCTOR_OPENROUTER_API_KEY")
	v.BindEnv("embeddings.api_key", "PROCTOR_EMBEDDINGS_API_KEY")

	// Database path
	v.BindEnv("database.path", "PROCTOR_DATABASE_PATH")

	// Local inference configuration
	v.BindEnv("local_inference.enabled", "PROCTOR_LOCAL_INFERENCE_ENABLED")
	v.BindEnv("local_inference.base_url", "PROCTOR_LOCAL_INFERENCE_BASE_URL")
	v.BindEnv("local_inference.model", "PROCTOR_LOCAL_INFERENCE_MODEL")
}
