package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/proctorhq/proctor/ai/openrouter"
	"github.com/proctorhq/proctor/ai/retry"
	"github.com/proctorhq/proctor/errors"
)

// LocalClientConfig holds configuration for the local inference client
type LocalClientConfig struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
	ContextSize    *int // nil = model default
	Retry          *retry.Policy
}

// LocalClient talks to a local inference server (Ollama, LocalAI, or any
// OpenAI-compatible endpoint). Deliberately uses a plain http.Client since
// the whole point is reaching localhost.
type LocalClient struct {
	baseURL     string
	model       string
	contextSize *int
	httpClient  *http.Client
	retryPolicy *retry.Policy
}

// NewLocalClient creates a client for local inference
func NewLocalClient(cfg LocalClientConfig) *LocalClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Hour // local models can be slow on first load
	}

	retryPolicy := cfg.Retry
	if retryPolicy == nil {
		retryPolicy = retry.DefaultPolicy()
	}

	return &LocalClient{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		model:       cfg.Model,
		contextSize: cfg.ContextSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryPolicy: retryPolicy,
	}
}

// localChatRequest matches the OpenAI chat completions format
// (Ollama and LocalAI are compatible)
type localChatRequest struct {
	Model    string           `json:"model"`
	Messages []localMessage   `json:"messages"`
	Stream   bool             `json:"stream"`
	Options  *localChatOption `json:"options,omitempty"` // Ollama-specific options
}

type localMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type localChatOption struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"num_predict,omitempty"` // Ollama uses num_predict
	NumCtx      int     `json:"num_ctx,omitempty"`     // Context window size
}

type localChatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int          `json:"index"`
		Message      localMessage `json:"message"`
		FinishReason string       `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

// Chat implements the AIClient interface for local inference
func (lc *LocalClient) Chat(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error) {
	if strings.TrimSpace(req.UserPrompt) == "" {
		return nil, errors.NewInvalidRequestError("user prompt cannot be empty")
	}

	temperature := 0.7
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := 4096
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}
	model := lc.model
	if req.Model != nil {
		model = *req.Model
	}

	numCtx := 0
	if lc.contextSize != nil && *lc.contextSize > 0 {
		numCtx = *lc.contextSize
	}

	var messages []localMessage
	if req.SystemPrompt != "" {
		messages = append(messages, localMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, localMessage{Role: "user", Content: req.UserPrompt})

	body := localChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: &localChatOption{
			Temperature: temperature,
			MaxTokens:   maxTokens,
			NumCtx:      numCtx,
		},
	}

	completion, err := retry.DoValue(ctx, lc.retryPolicy, func(ctx context.Context) (*localChatResponse, error) {
		return lc.dispatch(ctx, body)
	})
	if err != nil {
		return nil, errors.Wrap(err, "local inference error")
	}

	if len(completion.Choices) == 0 {
		return nil, errors.New("no completion choices from local inference")
	}

	resp := &openrouter.ChatResponse{
		Content: strings.TrimSpace(completion.Choices[0].Message.Content),
		Model:   completion.Model,
	}
	// Local servers do not always report usage
	if completion.Usage != nil {
		resp.Usage = openrouter.Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		}
	}

	return resp, nil
}

// dispatch performs a single request against the local server
func (lc *LocalClient) dispatch(ctx context.Context, body localChatRequest) (*localChatResponse, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	endpoint := lc.baseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := lc.httpClient.Do(req)
	if err != nil {
		return nil, errors.MarkTransient(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := errors.Newf("local inference returned status %d: %s", resp.StatusCode, string(respBody))
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, errors.MarkTransient(apiErr, "upstream failure")
		}
		return nil, errors.MarkPermanent(apiErr, "request rejected")
	}

	var completion localChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, errors.Wrap(err, "failed to decode response")
	}

	return &completion, nil
}

// ModelName returns the configured local model name
func (lc *LocalClient) ModelName() string {
	return lc.model
}
