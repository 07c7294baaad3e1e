package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/logger"
	"klarpakke/internal/models"
	"klarpakke/internal/pagination"
)

// signalService handles signal lifecycle business logic.
type signalService struct {
	db           *gorm.DB
	cleanupDelay time.Duration
}

// NewSignalService creates a new SignalServicer. cleanupDelay paces the
// per-record deletes in PurgeInvalid to stay under store rate limits.
func NewSignalService(db *gorm.DB, cleanupDelay time.Duration) SignalServicer {
	return &signalService{db: db, cleanupDelay: cleanupDelay}
}

// CreateSignal inserts a new pending signal.
func (s *signalService) CreateSignal(symbol string, direction models.SignalDirection, confidence float64, reason, aiModel string) (*models.Signal, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "signal symbol is required")
	}
	if direction != models.DirectionBuy && direction != models.DirectionSell {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be BUY or SELL")
	}
	if confidence < 0 || confidence > 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "confidence must be between 0 and 1")
	}

	signal := &models.Signal{
		Symbol:     strings.TrimSpace(symbol),
		Direction:  direction,
		Confidence: confidence,
		Reason:     reason,
		AIModel:    aiModel,
		Status:     models.StatusPending,
	}

	if err := s.db.Create(signal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signal, nil
}

// GetSignalByID retrieves a signal by ID.
func (s *signalService) GetSignalByID(id string) (*models.Signal, error) {
	var signal models.Signal
	if err := s.db.Where("id = ?", id).First(&signal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSignalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &signal, nil
}

// ListSignals retrieves a paginated list of signals, most recent first,
// optionally filtered by status.
func (s *signalService) ListSignals(status *models.SignalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Signal], error) {
	page.Defaults()

	base := s.db.Model(&models.Signal{})
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var signals []models.Signal
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&signals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(signals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// ListRecentByStatus retrieves up to limit signals with the given status,
// most recent first. Used by the propagation sync.
func (s *signalService) ListRecentByStatus(status models.SignalStatus, limit int) ([]models.Signal, error) {
	var signals []models.Signal
	if err := s.db.Where("status = ?", status).Order("created_at DESC").Limit(limit).Find(&signals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signals, nil
}

// Decide applies an approve/reject action to a signal. Actions are
// case-insensitive. Repeating the action that already finalized a signal
// is a no-op returning the current record; a conflicting action on a
// finalized signal is rejected. Only status and updated_at are mutated.
func (s *signalService) Decide(signalID, action string) (*models.Signal, error) {
	var target models.SignalStatus
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve":
		target = models.StatusApproved
	case "reject":
		target = models.StatusRejected
	default:
		return nil, apperrors.ErrInvalidAction
	}

	signal, err := s.GetSignalByID(signalID)
	if err != nil {
		return nil, err
	}

	if signal.Status.Terminal() {
		if signal.Status == target {
			return signal, nil
		}
		return nil, apperrors.ErrAlreadyFinalized
	}

	if err := s.db.Model(signal).Update("status", target).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signal, nil
}

// PurgeInvalid deletes every signal with a blank symbol. Deletes are
// per-record and paced; a failed delete is logged and does not stop the
// scan.
func (s *signalService) PurgeInvalid(ctx context.Context) (*CleanupReport, error) {
	var invalid []models.Signal
	if err := s.db.Where("symbol IS NULL OR TRIM(symbol) = ''").Find(&invalid).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log := logger.Get()
	deleted := 0
	for i, signal := range invalid {
		if i > 0 && s.cleanupDelay > 0 {
			select {
			case <-time.After(s.cleanupDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if err := s.db.Delete(&models.Signal{}, "id = ?", signal.ID).Error; err != nil {
			log.Errorw("failed to delete invalid signal", "signal_id", signal.ID, "error", err)
			continue
		}
		deleted++
	}

	var remaining int64
	if err := s.db.Model(&models.Signal{}).Count(&remaining).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if deleted > 0 {
		log.Infow("cleanup complete", "deleted", deleted, "remaining", remaining)
	}
	return &CleanupReport{Deleted: deleted, Remaining: remaining}, nil
}
