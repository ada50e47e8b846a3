// root.go defines the root command and CLI execution entry point.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bodik-mcp",
	Short: "MCP server for the BODIK open-data API",
	Long: `An MCP (Model Context Protocol) server exposing the BODIK open-data
API (https://wapi.bodik.jp) as tools: dataset discovery, schema
inspection, and parameterized searches with records/CSV/GeoJSON output.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command. Exit code 1 indicates error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns the root command for testing.
func RootCmd() *cobra.Command {
	return rootCmd
}
