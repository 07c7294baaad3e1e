package cli

import (
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"klarpakke/internal/config"
	"klarpakke/internal/database"
	"klarpakke/internal/services"
)

// app bundles the dependencies a one-shot command needs.
type app struct {
	cfg        *config.Config
	db         *gorm.DB
	httpClient *http.Client
	signals    services.SignalServicer
	risk       services.RiskServicer
}

// newApp loads configuration, connects to the store, and builds the
// shared services. Commands construct their own upstream clients so a
// missing credential only fails the command that needs it.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := dbManager.DB()
	return &app{
		cfg:        cfg,
		db:         db,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		signals:    services.NewSignalService(db, cfg.CleanupDelay),
		risk:       services.NewRiskService(db, cfg.RiskCeilingUSD),
	}, nil
}
