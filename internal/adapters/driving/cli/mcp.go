package cli

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pagespin/internal/adapters/driving/mcp"
)

var (
	mcpPort int
	mcpHost string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can inspect
and rotate PDFs.

Tools:
  pdf_info     Page count, page sizes and current rotation of a PDF
  rotate_pdf   Rotate pages and write rotated-<name>

Every tool call works on its own copy of the document, so concurrent
clients never see each other's rotations.

By default the server talks JSON-RPC over stdio. Use --port to serve
HTTP instead, for example for the MCP Inspector.

Examples:
  # Stdio mode
  pagespin mcp serve

  # HTTP mode
  pagespin mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "pagespin": {
        "command": "/path/to/pagespin",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().StringVar(&mcpHost, "host", "localhost", "HTTP listen host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	if newSession == nil {
		return errors.New("session factory not configured")
	}
	if mcpPort < 0 || mcpPort > 65535 {
		return fmt.Errorf("invalid port %d", mcpPort)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Sessions: newSession,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := net.JoinHostPort(mcpHost, strconv.Itoa(mcpPort))
		cmd.PrintErrf("MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
