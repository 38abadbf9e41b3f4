package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/errors"
)

func TestNewProvider(t *testing.T) {
	t.Run("ollama by default", func(t *testing.T) {
		p, err := NewProvider(config.EmbeddingsConfig{})
		require.NoError(t, err)
		assert.IsType(t, &OllamaProvider{}, p)
		assert.Equal(t, DefaultOllamaModel, p.Model())
	})

	t.Run("local", func(t *testing.T) {
		p, err := NewProvider(config.EmbeddingsConfig{Provider: "local"})
		require.NoError(t, err)
		assert.IsType(t, &LocalProvider{}, p)
	})

	t.Run("openai requires API key", func(t *testing.T) {
		_, err := NewProvider(config.EmbeddingsConfig{Provider: "openai"})
		require.Error(t, err)
		assert.True(t, errors.IsDependencyUnavailable(err))
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		_, err := NewProvider(config.EmbeddingsConfig{Provider: "cohere"})
		assert.Error(t, err)
	})
}

func TestLocalProvider(t *testing.T) {
	p := NewLocalProvider()
	ctx := context.Background()

	t.Run("deterministic", func(t *testing.T) {
		a, err := p.Embed(ctx, "repeatable")
		require.NoError(t, err)
		b, err := p.Embed(ctx, "repeatable")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("distinct texts get distinct vectors", func(t *testing.T) {
		a, err := p.Embed(ctx, "first")
		require.NoError(t, err)
		b, err := p.Embed(ctx, "second")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("unit length", func(t *testing.T) {
		v, err := p.Embed(ctx, "normalize me")
		require.NoError(t, err)
		require.Len(t, v, LocalDimension)

		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		_, err := p.Embed(ctx, "")
		assert.True(t, errors.IsInvalidRequest(err))
	})
}

func TestOllamaProvider_EmbedBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			embeddings[i] = []float32{float32(i), 1, 0}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model":      req.Model,
			"embeddings": embeddings,
		})
	}))
	defer server.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: server.URL})

	vectors, err := p.EmbedBatch(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0, 1, 0}, vectors[0])
	assert.Equal(t, []float32{1, 1, 0}, vectors[1])
}

func TestOpenAIProvider_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		// Return entries out of order; index must win
		json.NewEncoder(w).Encode(map[string]interface{}{
			"model": "text-embedding-3-small",
			"data": []map[string]interface{}{
				{"embedding": []float32{0, 1}, "index": 1},
				{"embedding": []float32{1, 0}, "index": 0},
			},
		})
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	vectors, err := p.EmbedBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1}, vectors[1])
}

func TestOpenAIProvider_PermanentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-bad", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = p.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.IsPermanent(err))
}

func TestProviders_RejectEmptyBatch(t *testing.T) {
	p := NewOllamaProvider(OllamaConfig{})
	_, err := p.EmbedBatch(context.Background(), nil)
	assert.True(t, errors.IsInvalidRequest(err))

	_, err = p.EmbedBatch(context.Background(), []string{"ok", ""})
	assert.True(t, errors.IsInvalidRequest(err))
}
