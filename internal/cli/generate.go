package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"klarpakke/internal/ai"
	"klarpakke/internal/notify"
	"klarpakke/internal/services"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate one AI trading signal",
		Long:  "Calls the AI provider for one trading signal, stores it as pending, and auto-approves it when the daily risk budget allows.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := app.cfg.RequireAI(); err != nil {
				return err
			}

			notifier, err := notify.NewTelegram(app.cfg.TelegramToken, app.cfg.TelegramChatID)
			if err != nil {
				return err
			}

			client := ai.NewClient(app.cfg.AIBaseURL, app.cfg.AIAPIKey, app.cfg.AIModel, app.httpClient)
			generator := services.NewGeneratorService(app.signals, app.risk, client, notifier, app.cfg.RiskPerSignalUSD)

			result, err := generator.Generate(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Generated %s %s (confidence %d%%), auto-approved: %v\n",
				result.Signal.Symbol, result.Signal.Direction,
				result.Signal.ConfidencePercent(), result.AutoApproved)
			return nil
		},
	}
}
