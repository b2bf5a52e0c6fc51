package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ai "github.com/spetersoncode/scout"
)

// Handler executes a tool with its arguments and returns text output.
type Handler func(ctx context.Context, args *ai.Params) (string, error)

// ServerTool pairs a descriptor with the handler that implements it.
type ServerTool struct {
	Descriptor ai.ToolDescriptor
	Handler    Handler
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	baseURL string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithBaseURL sets the public URL announced in the SSE endpoint event.
func WithBaseURL(u string) ServerOption {
	return func(c *serverConfig) {
		c.baseURL = u
	}
}

func applyServerOptions(opts ...ServerOption) *serverConfig {
	cfg := &serverConfig{
		name:    "scout-tools",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewServer creates an MCP server exposing tools. Tools without a handler
// are skipped.
//
// Example:
//
//	s := mcp.NewServer([]mcp.ServerTool{
//	    {Descriptor: scout.ToolDescriptor{Name: "echo", Description: "Echo text"}, Handler: echo},
//	}, mcp.WithName("my-tools"))
func NewServer(tools []ServerTool, opts ...ServerOption) *server.MCPServer {
	cfg := applyServerOptions(opts...)

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	for _, t := range tools {
		if t.Handler == nil {
			continue
		}
		s.AddTool(ToMCPTool(t.Descriptor), createMCPHandler(t.Handler))
	}

	return s
}

// createMCPHandler wraps a Handler as an MCP tool handler. Handler errors are
// reported to the caller as tool errors, not protocol errors.
func createMCPHandler(handler Handler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := ai.NewParams()
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			if err := json.Unmarshal(data, args); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("arguments must be an object: %v", err)), nil
			}
		}

		result, err := handler(ctx, args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(result), nil
	}
}

// ServeSSE serves tools over SSE on addr until ctx is cancelled. Clients
// connect to <baseURL>/sse.
func ServeSSE(ctx context.Context, addr string, tools []ServerTool, opts ...ServerOption) error {
	cfg := applyServerOptions(opts...)
	s := NewServer(tools, opts...)

	var sseOpts []server.SSEOption
	if cfg.baseURL != "" {
		sseOpts = append(sseOpts, server.WithBaseURL(cfg.baseURL))
	}
	sse := server.NewSSEServer(s, sseOpts...)

	errCh := make(chan error, 1)
	go func() { errCh <- sse.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return sse.Shutdown(shutdownCtx)
	}
}
