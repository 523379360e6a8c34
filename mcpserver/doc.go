// Package mcpserver provides the Model Context Protocol (MCP) server
// implementation.
//
// The mcpserver package exposes the control plane to agent runtimes using
// the mark3labs/mcp-go library. Two tools are registered: execute_action,
// which submits an arbitrary whitelisted action plan, and run_code, a
// convenience wrapper that routes sandbox runs through the same validated,
// audited path.
package mcpserver
