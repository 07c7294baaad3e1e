package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/logger"
	"klarpakke/internal/models"
	"klarpakke/internal/quotes"
)

// PositionService refreshes unrealized PnL on open positions from a
// market quote provider.
type PositionService struct {
	db       *gorm.DB
	provider quotes.Provider
	delay    time.Duration
}

// NewPositionService creates a new PositionService.
func NewPositionService(db *gorm.DB, provider quotes.Provider, delay time.Duration) *PositionService {
	return &PositionService{db: db, provider: provider, delay: delay}
}

// RefreshOpen fetches a quote for every open position and recomputes its
// PnL. A failed quote skips that position; the pass continues.
func (s *PositionService) RefreshOpen(ctx context.Context) (*RefreshReport, error) {
	var positions []models.Position
	if err := s.db.Where("status = ?", models.PositionOpen).Find(&positions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	log := logger.Get()
	report := &RefreshReport{}

	for i := range positions {
		pos := &positions[i]

		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}

		// A zero entry price would make pnl_percent divide by zero.
		if pos.EntryPrice <= 0 {
			log.Warnw("skipping position with invalid entry price", "position_id", pos.ID, "symbol", pos.Symbol, "entry_price", pos.EntryPrice)
			report.Failed++
			continue
		}

		price, err := s.provider.PriceUSD(ctx, pos.Symbol)
		if err != nil {
			log.Warnw("failed to fetch quote", "symbol", pos.Symbol, "provider", s.provider.Name(), "error", err)
			report.Failed++
			continue
		}

		now := time.Now()
		updates := map[string]interface{}{
			"current_price": price,
			"pnl_usd":       (price - pos.EntryPrice) * pos.Quantity,
			"pnl_percent":   (price - pos.EntryPrice) / pos.EntryPrice * 100,
			"last_price_at": &now,
		}
		if err := s.db.Model(pos).Updates(updates).Error; err != nil {
			log.Errorw("failed to update position", "position_id", pos.ID, "error", err)
			report.Failed++
			continue
		}
		report.Updated++
	}

	log.Infow("position refresh complete", "updated", report.Updated, "failed", report.Failed)
	return report, nil
}
