package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tddworks/tddflow/internal/tddflow/config"
	"github.com/tddworks/tddflow/internal/tddflow/mcpserver"
	"github.com/tddworks/tddflow/internal/tddflow/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DataRoot, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	handler := mcpserver.New(cfg, st)

	// Create MCP server using official SDK
	server := mcp.NewServer(&mcp.Implementation{
		Name:    mcpserver.ServerName,
		Version: mcpserver.ServerVersion,
	}, &mcp.ServerOptions{
		Instructions: mcpserver.Instructions,
	})

	// Register the surface selected by USE_NEW_TOOLS
	tools := mcpserver.ToolDefinitions(cfg.UseNewTools, cfg.Locale)
	for _, toolDef := range tools {
		// Capture for closure
		td := toolDef
		server.AddTool(&mcp.Tool{
			Name:        td.Name,
			Description: td.Description,
			InputSchema: td.InputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			var args map[string]interface{}
			if req.Params.Arguments != nil {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return &mcp.CallToolResult{
						Content: []mcp.Content{
							&mcp.TextContent{Text: "Error parsing arguments: " + err.Error()},
						},
						IsError: true,
					}, nil
				}
			}

			output, err := handler.Execute(ctx, td.Name, args)
			if err != nil {
				return &mcp.CallToolResult{
					Content: []mcp.Content{
						&mcp.TextContent{Text: "Error: " + err.Error()},
					},
					IsError: true,
				}, nil
			}
			return &mcp.CallToolResult{
				Content: []mcp.Content{
					&mcp.TextContent{Text: output},
				},
			}, nil
		})
	}

	fmt.Fprintf(os.Stderr, "%s v%s started with %d tools\n",
		mcpserver.ServerName, mcpserver.ServerVersion, len(tools))

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
