// version.go implements the version command.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bodik-jp/bodik-mcp/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, git commit, Go version, and platform.`,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Get().String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
