package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhq/proctor/ai/openrouter"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
	"github.com/proctorhq/proctor/technique"
)

type stubClient struct {
	lastReq openrouter.ChatRequest
	content string
	err     error
	calls   int
}

func (c *stubClient) Chat(_ context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return nil, c.err
	}
	return &openrouter.ChatResponse{Content: c.content, Model: "test-model"}, nil
}

// poolOrderSelector returns the first k pool entries in order.
type poolOrderSelector struct{}

func (poolOrderSelector) Select(_ context.Context, _ string, pool []retrieval.Example, k int) ([]retrieval.RankedExample, error) {
	if k > len(pool) {
		k = len(pool)
	}
	out := make([]retrieval.RankedExample, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, retrieval.RankedExample{Example: pool[i], Score: 1})
	}
	return out, nil
}

func newTestServer(client *stubClient) *Server {
	return newServer(
		technique.DefaultRegistry(poolOrderSelector{}),
		technique.NewExecutor(client),
	)
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestListTechniques(t *testing.T) {
	s := newTestServer(&stubClient{})

	result, err := s.handleListTechniques(context.Background(), callRequest("list_techniques", nil))
	require.NoError(t, err)

	var payload struct {
		Techniques []struct {
			Key        string `json:"key"`
			Name       string `json:"name"`
			Identifier string `json:"identifier"`
		} `json:"techniques"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, 11, payload.Count)
	assert.Equal(t, "emotion_prompting", payload.Techniques[0].Key)

	// Category prefix filter.
	result, err = s.handleListTechniques(context.Background(), callRequest("list_techniques",
		map[string]interface{}{"category": "2.2.1"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
	assert.Equal(t, 2, payload.Count)
}

func TestGeneratePrompt(t *testing.T) {
	s := newTestServer(&stubClient{})

	t.Run("renders without invoking the model", func(t *testing.T) {
		client := &stubClient{}
		s := newTestServer(client)

		result, err := s.handleGeneratePrompt(context.Background(), callRequest("generate_prompt",
			map[string]interface{}{
				"technique": "chain_of_thought",
				"input":     "What is 6*7?",
			}))
		require.NoError(t, err)
		assert.Contains(t, resultText(t, result), "Problem/Question: What is 6*7?")
		assert.Zero(t, client.calls)
	})

	t.Run("knn renders pool examples", func(t *testing.T) {
		result, err := s.handleGeneratePrompt(context.Background(), callRequest("generate_prompt",
			map[string]interface{}{
				"technique": "knn",
				"input":     "classify: sparrow",
				"k":         float64(1),
				"examples": []interface{}{
					map[string]interface{}{"input": "eagle", "output": "bird"},
					map[string]interface{}{"input": "shark", "output": "fish"},
				},
			}))
		require.NoError(t, err)
		text := resultText(t, result)
		assert.Contains(t, text, "Input: eagle\nOutput: bird")
		assert.NotContains(t, text, "shark")
	})

	t.Run("unknown technique", func(t *testing.T) {
		_, err := s.handleGeneratePrompt(context.Background(), callRequest("generate_prompt",
			map[string]interface{}{"technique": "nope", "input": "x"}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeUnknownTechnique, mcpErr.Code)
	})

	t.Run("missing parameters", func(t *testing.T) {
		_, err := s.handleGeneratePrompt(context.Background(), callRequest("generate_prompt",
			map[string]interface{}{"technique": "decomp"}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("malformed examples", func(t *testing.T) {
		_, err := s.handleGeneratePrompt(context.Background(), callRequest("generate_prompt",
			map[string]interface{}{
				"technique": "knn",
				"input":     "x",
				"examples":  []interface{}{map[string]interface{}{"output": "no input"}},
			}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})
}

func TestExecuteTechnique(t *testing.T) {
	t.Run("successful execution", func(t *testing.T) {
		client := &stubClient{content: "42"}
		s := newTestServer(client)

		result, err := s.handleExecuteTechnique(context.Background(), callRequest("execute_technique",
			map[string]interface{}{
				"technique":     "zero_shot_cot",
				"input":         "meaning of life?",
				"system_prompt": "Be brief.",
				"temperature":   0.3,
				"max_tokens":    float64(64),
			}))
		require.NoError(t, err)
		assert.Equal(t, "42", resultText(t, result))
		assert.Equal(t, 1, client.calls)
		assert.Equal(t, "Be brief.", client.lastReq.SystemPrompt)
		require.NotNil(t, client.lastReq.Temperature)
		assert.Equal(t, 0.3, *client.lastReq.Temperature)
		require.NotNil(t, client.lastReq.MaxTokens)
		assert.Equal(t, 64, *client.lastReq.MaxTokens)
	})

	t.Run("invocation failure surfaces transient flag", func(t *testing.T) {
		client := &stubClient{err: errors.MarkTransient(errors.New("503"), "backend busy")}
		s := newTestServer(client)

		_, err := s.handleExecuteTechnique(context.Background(), callRequest("execute_technique",
			map[string]interface{}{"technique": "decomp", "input": "x"}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.ErrorAs(t, err, &mcpErr)
		assert.Equal(t, ErrorCodeExecutionFailed, mcpErr.Code)
		data, ok := mcpErr.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, data["transient"])
	})
}

func TestServerReload(t *testing.T) {
	s := newTestServer(&stubClient{})

	t.Run("swaps components from fresh config", func(t *testing.T) {
		cfg := &config.Config{
			Retrieval: config.RetrievalConfig{Strategy: config.StrategyRandom, K: 3},
		}
		before, _ := s.components()
		require.NoError(t, s.Reload(cfg, nil))
		after, _ := s.components()
		assert.NotSame(t, before, after)

		result, err := s.handleListTechniques(context.Background(), callRequest("list_techniques", nil))
		require.NoError(t, err)
		var payload struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &payload))
		assert.Equal(t, 11, payload.Count)
	})

	t.Run("bad config keeps existing components", func(t *testing.T) {
		before, _ := s.components()
		err := s.Reload(&config.Config{
			Retrieval: config.RetrievalConfig{Strategy: "hybrid"},
		}, nil)
		require.Error(t, err)
		after, _ := s.components()
		assert.Same(t, before, after)
	})
}
