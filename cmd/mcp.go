package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscrape/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing YouTube search",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytscrape as tools.

The MCP server provides three tools:
- search_youtube_videos: keyword search with view, date, type and title filters
- trending_youtube_videos: most popular videos of a category and region
- estimate_youtube_quota: quota cost of a search and today's remaining units

Searches spend the same daily API quota as the CLI and are recorded in the
same ledger.

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport (e.g. for Claude Desktop)
  ytscrape mcp

  # Run MCP server with HTTP transport on port 8080
  ytscrape mcp --transport=http --port=8080

  # Set up Claude Desktop integration
  ytscrape mcp setup-claude`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout belongs to the protocol
		config.Verbose = false
		config.Quiet = true
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		if transport != "stdio" && transport != "http" {
			return fmt.Errorf("unsupported transport: %s (use stdio or http)", transport)
		}

		app, err := internal.NewApp(config)
		if err != nil {
			return err
		}

		mcpServer := internal.NewMCPServer(app, version)

		if transport == "http" {
			fmt.Fprintf(os.Stderr, "Starting ytscrape MCP server on HTTP port %d...\n", port)
		}

		// blocks until the context is cancelled
		return mcpServer.Start(cmd.Context(), transport, port)
	},
}

func init() {
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
