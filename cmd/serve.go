// serve.go implements the "bodik-mcp serve" command.
//
// Separated from root.go because serve has a unique lifecycle: unlike
// version, it blocks indefinitely handling MCP requests over stdio (or
// HTTP with --http).

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bodik-jp/bodik-mcp/internal/config"
	"github.com/bodik-jp/bodik-mcp/internal/mcp"
)

var serveHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start MCP server",
	Long: `Start an MCP (Model Context Protocol) server over stdio for LLM integration.

The upstream API endpoint can be overridden via BODIK_API_BASE or the
config file, so non-production API instances can be targeted:
  BODIK_API_BASE=https://staging.example.jp bodik-mcp serve

Use --http to serve the streamable HTTP transport instead of stdio:
  bodik-mcp serve --http :8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "serve MCP over HTTP on this address instead of stdio")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveHTTPAddr != "" {
		return mcp.ServeHTTP(cfg, serveHTTPAddr)
	}
	return mcp.Serve(cfg)
}
