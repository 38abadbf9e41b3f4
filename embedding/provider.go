// Package embedding provides text embedding providers and the memoizing
// cache used by semantic example selection.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/errors"
)

// Provider names
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderLocal  = "local"
)

// Provider generates vector embeddings for text
type Provider interface {
	// Embed returns the embedding vector for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns embedding vectors for multiple texts, in input order
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the model identifier used by this provider
	Model() string

	// Close releases any resources held by the provider
	Close() error
}

// NewProvider constructs an embedding provider from configuration.
// The provider name is an explicit choice; unknown names are an error,
// never a silent fallback.
func NewProvider(cfg config.EmbeddingsConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		})
	case ProviderOllama, "":
		return NewOllamaProvider(OllamaConfig{
			BaseURL:        cfg.BaseURL,
			Model:          cfg.Model,
			TimeoutSeconds: cfg.TimeoutSeconds,
		}), nil
	case ProviderLocal:
		return NewLocalProvider(), nil
	default:
		return nil, errors.Newf("unknown embedding provider: %s (valid: openai, ollama, local)", cfg.Provider)
	}
}

// hashText computes the SHA-256 cache key for a text
func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
