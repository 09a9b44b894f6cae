package mcpserver

import (
	"context"
	"io"

	"github.com/tddworks/tddflow/internal/mcp"
)

// ServerName and ServerVersion identify tddflow to MCP clients.
const (
	ServerName    = "tddflow"
	ServerVersion = "1.0.0"
)

// Instructions is the server guidance string sent on initialize.
const Instructions = "tddflow provides test-driven development assistant tools: generating failing tests from requirements, generating minimal implementations from tests, running test suites, analyzing coverage, suggesting refactors, validating red-green-refactor adherence, and tracking features, sessions, tests, and files per project."

// BuildServer wires the handler's tools, resources, and prompts into a
// stdio JSON-RPC server. The registered surface follows the handler's
// configuration (legacy or simplified).
func (h *Handler) BuildServer(reader io.Reader, writer io.Writer) *mcp.Server {
	server := mcp.NewServer(reader, writer)
	server.SetServerInfo(ServerName, ServerVersion)
	server.SetInstructions(Instructions)

	for _, def := range ToolDefinitions(h.cfg.UseNewTools, h.tr.Locale()) {
		tool := def
		server.RegisterTool(mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, func(ctx context.Context, args map[string]interface{}) (string, error) {
			return h.Execute(ctx, tool.Name, args)
		})
	}

	server.RegisterResources(h.ListResources, h.ReadResource)
	for _, p := range h.Prompts() {
		server.RegisterPrompt(p.Prompt, p.Renderer)
	}
	return server
}
