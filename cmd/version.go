package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const versionTemplate = `idxlint {{.Version}}

Analyzes SELECT, UPDATE, and DELETE statements. Schema index metadata can be
read from a Liquibase XML changelog or live from MySQL information_schema.
`

// Version is set at build time via ldflags
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print idxlint version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("idxlint %s (commit: %s, built: %s)\n", Version, CommitSHA, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Enable the standard --version flag, matching the `version` subcommand output.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, CommitSHA, BuildDate)
	rootCmd.SetVersionTemplate(versionTemplate)
}
