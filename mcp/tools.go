package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/retrieval"
	"github.com/proctorhq/proctor/technique"
)

// JSON-RPC error codes used by the tool handlers.
const (
	ErrorCodeInvalidParams    = -32602
	ErrorCodeInternalError    = -32603
	ErrorCodeUnknownTechnique = -32001
	ErrorCodeExecutionFailed  = -32002
)

// MCPError is a structured tool error; the framework handles encoding.
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

func (s *Server) handleListTechniques(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArguments(request)
	category := getStringDefault(args, "category", "")

	registry, _ := s.components()
	techniques := registry.List(category)
	entries := make([]map[string]interface{}, 0, len(techniques))
	for _, t := range techniques {
		entries = append(entries, map[string]interface{}{
			"key":         technique.Slug(t.Name()),
			"name":        t.Name(),
			"identifier":  t.Identifier(),
			"description": t.Description(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"techniques": entries,
		"count":      len(entries),
	})), nil
}

func (s *Server) handleGeneratePrompt(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArguments(request)

	registry, executor := s.components()
	tech, opts, err := resolveTechniqueCall(registry, args)
	if err != nil {
		return nil, err
	}
	input, _ := args["input"].(string)

	prompt, err := executor.GeneratePrompt(ctx, tech, input, opts...)
	if err != nil {
		if errors.IsInvalidRequest(err) {
			return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "prompt generation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(prompt), nil
}

func (s *Server) handleExecuteTechnique(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArguments(request)

	registry, executor := s.components()
	tech, opts, err := resolveTechniqueCall(registry, args)
	if err != nil {
		return nil, err
	}
	input, _ := args["input"].(string)

	req := technique.ExecuteRequest{
		Input:         input,
		SystemPrompt:  getStringDefault(args, "system_prompt", ""),
		PromptOptions: opts,
	}
	if model := getStringDefault(args, "model", ""); model != "" {
		req.Model = &model
	}
	if temp, ok := args["temperature"].(float64); ok {
		req.Temperature = &temp
	}
	if maxTokens, ok := args["max_tokens"].(float64); ok {
		mt := int(maxTokens)
		req.MaxTokens = &mt
	}

	response, err := executor.Execute(ctx, tech, req)
	if err != nil {
		if errors.IsInvalidRequest(err) {
			return nil, newMCPError(ErrorCodeInvalidParams, err.Error(), nil)
		}
		return nil, newMCPError(ErrorCodeExecutionFailed, "technique execution failed", map[string]interface{}{
			"error":     err.Error(),
			"transient": errors.IsTransient(err),
		})
	}

	return mcp.NewToolResultText(response), nil
}

// resolveTechniqueCall validates the shared technique/input/examples/k
// parameters and resolves the technique from the registry.
func resolveTechniqueCall(registry *technique.Registry, args map[string]interface{}) (technique.Technique, []technique.Option, error) {
	key, ok := args["technique"].(string)
	if !ok || key == "" {
		return nil, nil, newMCPError(ErrorCodeInvalidParams, "technique parameter is required", map[string]interface{}{
			"param":  "technique",
			"reason": "missing or empty",
		})
	}
	input, ok := args["input"].(string)
	if !ok || input == "" {
		return nil, nil, newMCPError(ErrorCodeInvalidParams, "input parameter is required", map[string]interface{}{
			"param":  "input",
			"reason": "missing or empty",
		})
	}

	tech, err := registry.Get(key)
	if err != nil {
		return nil, nil, newMCPError(ErrorCodeUnknownTechnique, fmt.Sprintf("unknown technique %q", key), map[string]interface{}{
			"known": registry.Keys(),
		})
	}

	var opts []technique.Option
	if pool, perr := parseExamples(args); perr != nil {
		return nil, nil, perr
	} else if len(pool) > 0 {
		opts = append(opts, technique.WithExamples(pool))
	}
	if k := getIntDefault(args, "k", 0); k > 0 {
		opts = append(opts, technique.WithK(k))
	}

	return tech, opts, nil
}

func parseExamples(args map[string]interface{}) ([]retrieval.Example, error) {
	raw, ok := args["examples"].([]interface{})
	if !ok {
		return nil, nil
	}
	pool := make([]retrieval.Example, 0, len(raw))
	for i, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "examples entries must be objects", map[string]interface{}{
				"index": i,
			})
		}
		input, _ := entry["input"].(string)
		if input == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, "example input must not be empty", map[string]interface{}{
				"index": i,
			})
		}
		output, _ := entry["output"].(string)
		pool = append(pool, retrieval.Example{Input: input, Output: output})
	}
	return pool, nil
}

func toolArguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

func getStringDefault(args map[string]interface{}, key, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
