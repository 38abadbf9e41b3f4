package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/proctorhq/proctor/ai/retry"
	"github.com/proctorhq/proctor/errors"
)

// DefaultOllamaModel is the embedding model used when none is configured
const DefaultOllamaModel = "nomic-embed-text"

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaConfig configures the Ollama embedding provider
type OllamaConfig struct {
	BaseURL        string // Empty = http://localhost:11434
	Model          string // Empty = DefaultOllamaModel
	TimeoutSeconds int
	Retry          *retry.Policy
}

// OllamaProvider generates embeddings via a local Ollama server
type OllamaProvider struct {
	baseURL     string
	model       string
	httpClient  *http.Client
	retryPolicy *retry.Policy
}

// NewOllamaProvider creates an Ollama embedding provider
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOllamaModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	retryPolicy := cfg.Retry
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy()
	}

	return &OllamaProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryPolicy: retryPolicy,
	}
}

// Embed implements Provider
func (o *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.Wrap(errors.ErrRetrieval, "no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch implements Provider using Ollama's /api/embed endpoint
func (o *OllamaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errors.NewInvalidRequestError("no texts provided")
	}
	for i, text := range texts {
		if text == "" {
			return nil, errors.NewInvalidRequestError("text at index %d is empty", i)
		}
	}

	return retry.DoValue(ctx, o.retryPolicy, func(ctx context.Context) ([][]float32, error) {
		return o.callAPI(ctx, texts)
	})
}

func (o *OllamaProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := map[string]interface{}{
		"model": o.model,
		"input": texts,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.MarkTransient(err, "embedding api call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := errors.Newf("ollama embed error %d: %s", resp.StatusCode, string(bodyBytes))
		if resp.StatusCode >= 500 {
			return nil, errors.MarkTransient(apiErr, "upstream failure")
		}
		return nil, errors.MarkPermanent(apiErr, "request rejected")
	}

	var apiResp struct {
		Model      string      `json:"model"`
		Embeddings [][]float32 `json:"embeddings"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if len(apiResp.Embeddings) != len(texts) {
		return nil, errors.Newf("expected %d embeddings, got %d", len(texts), len(apiResp.Embeddings))
	}

	return apiResp.Embeddings, nil
}

// Model implements Provider
func (o *OllamaProvider) Model() string {
	return o.model
}

// Close implements Provider
func (o *OllamaProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
