package services

import (
	"context"
	"fmt"
	"time"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/logger"
	"klarpakke/internal/models"
	"klarpakke/internal/webflow"
)

// Fallback shown in the display collection when a signal has no rationale.
const noReasonFallback = "No reason provided"

// SyncService mirrors approved signals into the display collection,
// one-way and idempotent on the derived slug.
type SyncService struct {
	signals    SignalServicer
	collection *webflow.Client
	batchSize  int
	delay      time.Duration
}

// NewSyncService creates a new SyncService. delay paces item creates to
// respect the collection API's rate limits.
func NewSyncService(signals SignalServicer, collection *webflow.Client, batchSize int, delay time.Duration) *SyncService {
	return &SyncService{
		signals:    signals,
		collection: collection,
		batchSize:  batchSize,
		delay:      delay,
	}
}

// SyncApproved runs one propagation pass. Signals already present in the
// collection or carrying a blank symbol are skipped; a failed create is
// counted and does not block the rest of the batch. The pass is
// re-runnable: a second run over an unchanged set creates nothing.
func (s *SyncService) SyncApproved(ctx context.Context) (*SyncReport, error) {
	signals, err := s.signals.ListRecentByStatus(models.StatusApproved, s.batchSize)
	if err != nil {
		return nil, err
	}

	report := &SyncReport{Total: len(signals)}
	if len(signals) == 0 {
		return report, nil
	}

	existing, err := s.collection.ExistingSlugs(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, fmt.Errorf("listing collection items: %w", err))
	}

	log := logger.Get()
	for i := range signals {
		signal := &signals[i]

		if !signal.HasSymbol() {
			log.Warnw("skipping signal with blank symbol", "signal_id", signal.ID)
			report.Skipped++
			continue
		}

		slug := signal.Slug()
		if existing[slug] {
			report.Skipped++
			continue
		}

		reason := signal.Reason
		if reason == "" {
			reason = noReasonFallback
		}

		err := s.collection.CreateItem(ctx, webflow.ItemFields{
			Name:       fmt.Sprintf("%s %s", signal.Symbol, signal.Direction),
			Slug:       slug,
			Symbol:     signal.Symbol,
			Direction:  string(signal.Direction),
			Confidence: signal.ConfidencePercent(),
			Reason:     reason,
			Status:     string(signal.Status),
		})
		if err != nil {
			log.Errorw("failed to sync signal", "signal_id", signal.ID, "slug", slug, "error", err)
			report.Errors++
		} else {
			existing[slug] = true
			report.Synced++
		}

		if s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return report, ctx.Err()
			}
		}
	}

	log.Infow("sync complete",
		"synced", report.Synced,
		"skipped", report.Skipped,
		"errors", report.Errors,
		"total", report.Total,
	)
	return report, nil
}
