package services

import (
	"context"
	"errors"
	"time"

	"klarpakke/internal/ai"
	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/logger"
	"klarpakke/internal/models"
	"klarpakke/internal/notify"
)

// GenerationResult is the outcome of one generation run.
type GenerationResult struct {
	Signal       *models.Signal `json:"signal"`
	AutoApproved bool           `json:"auto_approved"`
}

// GeneratorService asks the AI provider for one signal, persists it as
// pending, and runs it through the risk-gated auto-approval.
type GeneratorService struct {
	signals       SignalServicer
	risk          RiskServicer
	client        *ai.Client
	notifier      *notify.Telegram
	perSignalRisk float64
}

// NewGeneratorService creates a new GeneratorService. notifier may be nil.
func NewGeneratorService(signals SignalServicer, risk RiskServicer, client *ai.Client, notifier *notify.Telegram, perSignalRisk float64) *GeneratorService {
	return &GeneratorService{
		signals:       signals,
		risk:          risk,
		client:        client,
		notifier:      notifier,
		perSignalRisk: perSignalRisk,
	}
}

// Generate produces one signal. An unusable AI response fails the run
// without persisting anything. Auto-approval is best-effort: a ledger
// failure leaves the signal pending for manual review rather than
// failing the generation.
func (s *GeneratorService) Generate(ctx context.Context) (*GenerationResult, error) {
	candidate, err := s.client.GenerateSignal(ctx)
	if err != nil {
		if errors.Is(err, ai.ErrInvalidResponse) || errors.Is(err, ai.ErrBadRequest) {
			return nil, apperrors.Wrap(apperrors.ErrInvalidAIResponse, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, err)
	}

	signal, err := s.signals.CreateSignal(
		candidate.Symbol,
		models.SignalDirection(candidate.Direction),
		candidate.Confidence,
		candidate.Reasoning,
		s.client.Model(),
	)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Infow("signal generated",
		"signal_id", signal.ID,
		"symbol", signal.Symbol,
		"direction", signal.Direction,
		"confidence", signal.Confidence,
	)

	autoApproved := false
	today := models.RiskDate(time.Now())
	committed, err := s.risk.TryCommit(today, s.perSignalRisk)
	switch {
	case err != nil:
		log.Errorw("risk ledger unavailable, leaving signal pending", "signal_id", signal.ID, "error", err)
	case committed:
		signal, err = s.signals.Decide(signal.ID, "approve")
		if err != nil {
			return nil, err
		}
		autoApproved = true
		log.Infow("signal auto-approved", "signal_id", signal.ID)
	default:
		log.Infow("risk ceiling reached, awaiting manual approval", "signal_id", signal.ID)
	}

	s.notifier.SignalGenerated(signal, autoApproved)

	return &GenerationResult{Signal: signal, AutoApproved: autoApproved}, nil
}
