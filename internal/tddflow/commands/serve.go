package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tddworks/tddflow/internal/tddflow/mcpserver"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tool surface over stdio",
		Long: `Run the MCP server on standard input/output using the built-in
JSON-RPC transport. USE_NEW_TOOLS=1 selects the simplified 3-tool
surface; the default is the legacy 15-tool surface.

Intended to be launched by an MCP client, not interactively.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "tddflow serve: stdin is a terminal; this command expects an MCP client on stdio")
	}

	handler := mcpserver.New(cfg, st)
	server := handler.BuildServer(os.Stdin, os.Stdout)

	tools := mcpserver.ToolDefinitions(cfg.UseNewTools, cfg.Locale)
	fmt.Fprintf(os.Stderr, "%s v%s started with %d tools\n",
		mcpserver.ServerName, mcpserver.ServerVersion, len(tools))

	return server.ServeWithSignalHandler()
}

func init() {
	RootCmd.AddCommand(newServeCmd())
}
