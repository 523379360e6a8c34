package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/isdmx/tutorbox/config"
	"github.com/isdmx/tutorbox/controlplane"
	"github.com/isdmx/tutorbox/sandbox"
)

// MCPServer exposes the control plane over the Model Context Protocol
type MCPServer struct {
	config    *config.Config
	logger    *zap.Logger
	plane     *controlplane.ControlPlane
	mcpServer *server.MCPServer
}

// New creates a new MCPServer
func New(cfg *config.Config, logger *zap.Logger, plane *controlplane.ControlPlane) (*MCPServer, error) {
	s := &MCPServer{
		config: cfg,
		logger: logger,
		plane:  plane,
	}

	// Log configuration parameters on startup
	logger.Info("configuration loaded",
		zap.String("server.transport", cfg.Server.Transport),
		zap.Int("server.http_port", cfg.Server.HTTPPort),
		zap.Strings("safety.allowed_actions", cfg.Safety.AllowedActions),
		zap.Int("safety.max_parameters", cfg.Safety.MaxParameters),
		zap.Strings("safety.writable_roots", cfg.Safety.WritableRoots),
		zap.Int("sandbox.exec_timeout_sec", cfg.Sandbox.ExecTimeoutSec),
		zap.Int("sandbox.compile_timeout_sec", cfg.Sandbox.CompileTimeoutSec),
		zap.Int("sandbox.max_output_kb", cfg.Sandbox.MaxOutputKB),
	)

	// Create the MCP server
	s.mcpServer = server.NewMCPServer("tutorbox-controlplane", "Safety-mediated tool execution for tutoring agents")

	s.registerExecuteActionTool()
	s.registerRunCodeTool()

	return s, nil
}

// registerExecuteActionTool registers the generic execute_action tool
func (s *MCPServer) registerExecuteActionTool() {
	tool := mcp.Tool{
		Name:        "execute_action",
		Description: "Execute a tool action through the safety-validated control plane",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"action": map[string]any{
					"type":        "string",
					"description": "Action name (must be on the safety whitelist)",
				},
				"parameters": map[string]any{
					"type":        "object",
					"description": "Tool-specific parameters (optional)",
				},
				"context": map[string]any{
					"type":        "object",
					"description": "Caller context such as session identifiers (optional)",
				},
			},
			Required: []string{"action"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleExecuteAction)
}

// registerRunCodeTool registers the run_code convenience tool
func (s *MCPServer) registerRunCodeTool() {
	tool := mcp.Tool{
		Name:        "run_code",
		Description: "Execute source code in the sandboxed multi-language engine",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Source code to run",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Programming language",
					"enum":        sandbox.SupportedLanguages(),
				},
			},
			Required: []string{"code", "language"},
		},
	}

	s.mcpServer.AddTool(tool, s.handleRunCode)
}

// handleExecuteAction handles the execute_action tool
func (s *MCPServer) handleExecuteAction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := request.RequireString("action")
	if err != nil {
		return nil, fmt.Errorf("action parameter is required: %w", err)
	}

	args := request.GetArguments()

	plan := controlplane.ActionPlan{Action: action}
	if params, ok := args["parameters"].(map[string]any); ok {
		plan.Parameters = params
	}
	if rawCtx, ok := args["context"].(map[string]any); ok {
		plan.Context = make(map[string]string, len(rawCtx))
		for k, v := range rawCtx {
			if str, ok := v.(string); ok {
				plan.Context[k] = str
			}
		}
	}

	s.logger.Info("action requested", zap.String("action", action))

	envelope := s.plane.Execute(ctx, plan)
	return s.envelopeResult(envelope)
}

// handleRunCode handles the run_code tool by submitting a run_code plan
// through the control plane, so sandbox runs are validated and audited
// like every other action.
func (s *MCPServer) handleRunCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return nil, fmt.Errorf("code parameter is required: %w", err)
	}

	language, err := request.RequireString("language")
	if err != nil {
		return nil, fmt.Errorf("language parameter is required: %w", err)
	}

	s.logger.Info("code execution requested", zap.String("language", language))

	envelope := s.plane.Execute(ctx, controlplane.ActionPlan{
		Action: "run_code",
		Parameters: map[string]any{
			"code":     code,
			"language": language,
		},
	})
	return s.envelopeResult(envelope)
}

// envelopeResult serializes an execution envelope as a tool result
func (s *MCPServer) envelopeResult(envelope controlplane.Envelope) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(payload),
			},
		},
		IsError: !envelope.Success,
	}, nil
}

// ServeStdio starts the server on stdio
func (s *MCPServer) ServeStdio() error {
	s.logger.Info("starting MCP server on stdio")
	return server.ServeStdio(s.mcpServer)
}

// ServeHTTP starts the server on HTTP
func (s *MCPServer) ServeHTTP() error {
	port := s.config.Server.HTTPPort
	s.logger.Info("starting MCP server on HTTP", zap.Int("port", port))

	httpServer := server.NewStreamableHTTPServer(s.mcpServer)
	return httpServer.Start(fmt.Sprintf(":%d", port))
}

// GetMCPServer returns the underlying MCP server for fx
func (s *MCPServer) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}
