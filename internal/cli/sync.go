package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"klarpakke/internal/services"
	"klarpakke/internal/webflow"
)

// NewSyncCommand creates the sync command.
func NewSyncCommand() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync approved signals to the display collection",
		Long:  "Mirrors approved signals into the Webflow CMS collection. Idempotent: signals already present (by slug) are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.cfg.RequireWebflow(); err != nil {
				return err
			}

			if batchSize == 0 {
				batchSize = app.cfg.SyncBatchSize
			}

			collection := webflow.NewClient(app.cfg.WebflowBaseURL, app.cfg.WebflowToken, app.cfg.WebflowCollectionID, app.httpClient)
			sync := services.NewSyncService(app.signals, collection, batchSize, app.cfg.SyncDelay)

			report, err := sync.SyncApproved(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Sync complete: synced=%d skipped=%d errors=%d total=%d\n",
				report.Synced, report.Skipped, report.Errors, report.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "number of approved signals to consider (default from config)")

	return cmd
}
