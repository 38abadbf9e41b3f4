package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/proctorhq/proctor/technique"
)

func listTechniquesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_techniques",
		Description: "List the available prompting techniques, optionally filtered by taxonomy category",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Identifier prefix to filter by (e.g. '2.2.1' for few-shot techniques)",
				},
			},
		},
	}
}

func generatePromptTool() mcp.Tool {
	return mcp.Tool{
		Name:        "generate_prompt",
		Description: "Render a technique's prompt for the given input without invoking a model",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"technique": map[string]interface{}{
					"type":        "string",
					"description": "Technique key (e.g. 'chain_of_thought', 'knn')",
				},
				"input": map[string]interface{}{
					"type":        "string",
					"description": "Input text to render into the prompt",
				},
				"examples": map[string]interface{}{
					"type":        "array",
					"description": "Example pool for few-shot techniques",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"input":  map[string]interface{}{"type": "string"},
							"output": map[string]interface{}{"type": "string"},
						},
						"required": []string{"input"},
					},
				},
				"k": map[string]interface{}{
					"type":        "integer",
					"description": "How many examples KNN selects from the pool",
					"default":     technique.DefaultKNNExamples,
				},
			},
			Required: []string{"technique", "input"},
		},
	}
}

func executeTechniqueTool() mcp.Tool {
	return mcp.Tool{
		Name:        "execute_technique",
		Description: "Render a technique's prompt and execute it against the configured model",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"technique": map[string]interface{}{
					"type":        "string",
					"description": "Technique key (e.g. 'chain_of_thought', 'knn')",
				},
				"input": map[string]interface{}{
					"type":        "string",
					"description": "Input text to render into the prompt",
				},
				"system_prompt": map[string]interface{}{
					"type":        "string",
					"description": "Optional system prompt",
				},
				"model": map[string]interface{}{
					"type":        "string",
					"description": "Optional model override",
				},
				"temperature": map[string]interface{}{
					"type":        "number",
					"description": "Optional sampling temperature override",
				},
				"max_tokens": map[string]interface{}{
					"type":        "integer",
					"description": "Optional completion token cap override",
				},
				"examples": map[string]interface{}{
					"type":        "array",
					"description": "Example pool for few-shot techniques",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"input":  map[string]interface{}{"type": "string"},
							"output": map[string]interface{}{"type": "string"},
						},
						"required": []string{"input"},
					},
				},
				"k": map[string]interface{}{
					"type":        "integer",
					"description": "How many examples KNN selects from the pool",
					"default":     technique.DefaultKNNExamples,
				},
			},
			Required: []string{"technique", "input"},
		},
	}
}
