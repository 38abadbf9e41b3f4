// Package mcp exposes the technique catalog over the Model Context
// Protocol: listing techniques, rendering prompts, and executing them
// against the configured model backend.
package mcp

import (
	"context"
	"database/sql"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/proctorhq/proctor/ai/provider"
	"github.com/proctorhq/proctor/config"
	"github.com/proctorhq/proctor/embedding"
	"github.com/proctorhq/proctor/errors"
	"github.com/proctorhq/proctor/internal/version"
	"github.com/proctorhq/proctor/retrieval"
	"github.com/proctorhq/proctor/technique"
)

// ServerName is the MCP server name advertised during initialization.
const ServerName = "proctor"

// Server wraps the MCP server with the technique registry and executor.
// Registry and executor are swapped atomically on config reload, so the
// mutex guards them against in-flight tool calls.
type Server struct {
	mcp *server.MCPServer

	mu       sync.RWMutex
	registry *technique.Registry
	executor *technique.Executor
}

// NewServer wires the full stack from configuration: embedding provider,
// example selector, model client, registry and executor.
func NewServer(cfg *config.Config, db *sql.DB) (*Server, error) {
	registry, executor, err := buildComponents(cfg, db)
	if err != nil {
		return nil, err
	}
	return newServer(registry, executor), nil
}

// buildComponents constructs the registry and executor for a given config
func buildComponents(cfg *config.Config, db *sql.DB) (*technique.Registry, *technique.Executor, error) {
	var embProvider embedding.Provider
	if cfg.Retrieval.Strategy == "" || cfg.Retrieval.Strategy == config.StrategySemantic {
		p, err := embedding.NewProvider(cfg.Embeddings)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to build embedding provider")
		}
		embProvider = p
	}

	selector, err := retrieval.NewSelector(cfg.Retrieval, embProvider)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build example selector")
	}

	client := provider.NewAIClient(cfg, db, 0, "mcp", "", "")
	return technique.DefaultRegistry(selector), technique.NewExecutor(client), nil
}

// Reload rebuilds the registry and executor from a fresh config. In-flight
// tool calls finish against the components they started with.
func (s *Server) Reload(cfg *config.Config, db *sql.DB) error {
	registry, executor, err := buildComponents(cfg, db)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.registry = registry
	s.executor = executor
	s.mu.Unlock()
	return nil
}

// components returns the current registry and executor pair
func (s *Server) components() (*technique.Registry, *technique.Executor) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry, s.executor
}

// newServer builds a Server from explicit dependencies.
func newServer(registry *technique.Registry, executor *technique.Executor) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, version.Version),
		registry: registry,
		executor: executor,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(listTechniquesTool(), s.handleListTechniques)
	s.mcp.AddTool(generatePromptTool(), s.handleGeneratePrompt)
	s.mcp.AddTool(executeTechniqueTool(), s.handleExecuteTechnique)
}

// Serve runs the server on stdio and blocks until the transport closes.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}
