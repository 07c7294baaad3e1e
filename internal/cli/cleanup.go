package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCleanupCommand creates the cleanup command.
func NewCleanupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete signals with blank symbols",
		Long:  "Scans the signal store and deletes records whose symbol is empty or whitespace-only. Such records are never synced or displayed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			report, err := app.signals.PurgeInvalid(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Cleanup complete: deleted=%d remaining=%d\n", report.Deleted, report.Remaining)
			return nil
		},
	}
}
