package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"klarpakke/internal/quotes"
	"klarpakke/internal/services"
)

// NewPositionsCommand creates the positions command.
func NewPositionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "positions",
		Short: "Refresh PnL on open positions",
		Long:  "Fetches current market prices and recomputes unrealized PnL for every open position.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			provider := quotes.NewCoinGecko(app.cfg.QuotesBaseURL, app.httpClient)
			positions := services.NewPositionService(app.db, provider, app.cfg.SyncDelay)

			report, err := positions.RefreshOpen(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Positions refreshed: updated=%d failed=%d\n", report.Updated, report.Failed)
			return nil
		},
	}
}
