package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/proctorhq/proctor/ai/retry"
	"github.com/proctorhq/proctor/errors"
)

// DefaultOpenAIModel is the embedding model used when none is configured
const DefaultOpenAIModel = "text-embedding-3-small"

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIConfig configures the OpenAI embedding provider
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string // Empty = api.openai.com
	Model          string // Empty = DefaultOpenAIModel
	TimeoutSeconds int
	Retry          *retry.Policy
}

// OpenAIProvider generates embeddings via the OpenAI embeddings API
type OpenAIProvider struct {
	apiKey      string
	baseURL     string
	model       string
	httpClient  *http.Client
	retryPolicy *retry.Policy
}

// NewOpenAIProvider creates an OpenAI embedding provider
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrDependencyUnavailable, "OpenAI embedding API key not configured")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryPolicy := cfg.Retry
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy()
	}

	return &OpenAIProvider{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryPolicy: retryPolicy,
	}, nil
}

// Embed implements Provider
func (o *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, errors.Wrap(errors.ErrRetrieval, "no embedding returned")
	}
	return vectors[0], nil
}

// EmbedBatch implements Provider
func (o *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
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

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := map[string]interface{}{
		"input": texts,
		"model": o.model,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, errors.MarkTransient(err, "embedding api call")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := errors.Newf("embedding api error %d: %s", resp.StatusCode, string(bodyBytes))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, errors.MarkTransient(apiErr, "upstream failure")
		}
		return nil, errors.MarkPermanent(apiErr, "request rejected")
	}

	var apiResp struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		} `json:"data"`
		Model string `json:"model"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if len(apiResp.Data) != len(texts) {
		return nil, errors.Newf("expected %d embeddings, got %d", len(texts), len(apiResp.Data))
	}

	// The API may return entries out of order; index is authoritative
	vectors := make([][]float32, len(texts))
	for _, data := range apiResp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, errors.Newf("embedding index %d out of range", data.Index)
		}
		vectors[data.Index] = data.Embedding
	}

	return vectors, nil
}

// Model implements Provider
func (o *OpenAIProvider) Model() string {
	return o.model
}

// Close implements Provider
func (o *OpenAIProvider) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
