// Package cli implements the klarctl ops commands. Each command runs one
// pipeline pass against the configured store and exits; scheduling is
// left to cron or CI.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the klarctl CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "klarctl",
		Short:         "Klarpakke pipeline operations",
		Long:          "One-shot operations on the Klarpakke signal pipeline: generate a signal, sync approved signals to the display collection, purge invalid records, and refresh position PnL.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewCleanupCommand())
	cmd.AddCommand(NewPositionsCommand())

	return cmd
}
