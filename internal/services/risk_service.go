package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/models"
)

// riskService handles the daily risk ledger.
type riskService struct {
	db      *gorm.DB
	ceiling float64
}

// NewRiskService creates a new RiskServicer with the given daily ceiling.
func NewRiskService(db *gorm.DB, ceiling float64) RiskServicer {
	return &riskService{db: db, ceiling: ceiling}
}

// Ceiling returns the configured daily risk ceiling in USD.
func (s *riskService) Ceiling() float64 { return s.ceiling }

// CurrentRisk returns the committed risk for the given day key, zero
// when no meter row exists yet.
func (s *riskService) CurrentRisk(date string) (float64, error) {
	var meter models.DailyRiskMeter
	if err := s.db.Where("date = ?", date).First(&meter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return meter.TotalRiskUSD, nil
}

// TryCommit adds contribution to the day's total when the result stays
// under the ceiling. The check-and-add runs as a single conditional
// UPDATE so two concurrent generators cannot both read a stale total and
// overshoot the ceiling.
func (s *riskService) TryCommit(date string, contribution float64) (bool, error) {
	committed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		meter := models.DailyRiskMeter{Date: date}
		if err := tx.Where("date = ?", date).FirstOrCreate(&meter).Error; err != nil {
			return err
		}

		res := tx.Model(&models.DailyRiskMeter{}).
			Where("date = ? AND total_risk_usd + ? < ?", date, contribution, s.ceiling).
			Update("total_risk_usd", gorm.Expr("total_risk_usd + ?", contribution))
		if res.Error != nil {
			return res.Error
		}

		committed = res.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return committed, nil
}
