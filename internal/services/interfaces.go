package services

import (
	"context"

	"klarpakke/internal/models"
	"klarpakke/internal/pagination"
)

// UserServicer defines the contract for operator account business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
}

// CleanupReport summarizes a PurgeInvalid pass.
type CleanupReport struct {
	Deleted   int   `json:"deleted"`
	Remaining int64 `json:"remaining"`
}

// SignalServicer defines the contract for signal lifecycle business logic.
// It exclusively owns signal records: approval decisions mutate only the
// status (and its timestamp), never any other field.
type SignalServicer interface {
	CreateSignal(symbol string, direction models.SignalDirection, confidence float64, reason, aiModel string) (*models.Signal, error)
	GetSignalByID(id string) (*models.Signal, error)
	ListSignals(status *models.SignalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Signal], error)
	ListRecentByStatus(status models.SignalStatus, limit int) ([]models.Signal, error)
	Decide(signalID, action string) (*models.Signal, error)
	PurgeInvalid(ctx context.Context) (*CleanupReport, error)
}

// RiskServicer defines the contract for the daily risk ledger that gates
// auto-approval.
type RiskServicer interface {
	// CurrentRisk returns the committed risk for the given day key,
	// zero when no record exists yet.
	CurrentRisk(date string) (float64, error)

	// TryCommit atomically adds contribution to the day's total when the
	// result stays under the ceiling. Returns true when committed.
	TryCommit(date string, contribution float64) (bool, error)

	// Ceiling returns the configured daily risk ceiling in USD.
	Ceiling() float64
}

// SyncReport aggregates the outcome of one propagation pass.
type SyncReport struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
	Total   int `json:"total"`
}

// RefreshReport aggregates the outcome of one position refresh pass.
type RefreshReport struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
