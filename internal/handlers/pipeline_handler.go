package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/services"
)

// PipelineHandler exposes the scheduler-facing pipeline operations:
// signal generation, propagation sync, cleanup, and position refresh.
// Components whose upstream credentials are missing are nil and report
// CONFIG_MISSING instead of running against undefined endpoints.
type PipelineHandler struct {
	generator *services.GeneratorService
	sync      *services.SyncService
	signals   services.SignalServicer
	positions *services.PositionService
}

// NewPipelineHandler creates a new PipelineHandler. generator and sync
// may be nil when their credentials are not configured.
func NewPipelineHandler(
	generator *services.GeneratorService,
	sync *services.SyncService,
	signals services.SignalServicer,
	positions *services.PositionService,
) *PipelineHandler {
	return &PipelineHandler{
		generator: generator,
		sync:      sync,
		signals:   signals,
		positions: positions,
	}
}

// Generate produces one AI signal and runs auto-approval
// @Summary     Generate a signal
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} map[string]interface{} "Generation result"
// @Failure     502 {object} map[string]interface{} "AI provider failure"
// @Router      /pipeline/generate [post]
func (h *PipelineHandler) Generate(c *gin.Context) {
	if h.generator == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingCredentials, "AI provider is not configured"))
		return
	}

	result, err := h.generator.Generate(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "signal": result.Signal, "auto_approved": result.AutoApproved})
}

// Sync mirrors approved signals into the display collection
// @Summary     Sync approved signals
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.SyncReport "Sync report"
// @Router      /pipeline/sync [post]
func (h *PipelineHandler) Sync(c *gin.Context) {
	if h.sync == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingCredentials, "Collection API is not configured"))
		return
	}

	report, err := h.sync.SyncApproved(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// Cleanup deletes signals with blank symbols
// @Summary     Purge invalid signals
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.CleanupReport "Cleanup report"
// @Router      /pipeline/cleanup [post]
func (h *PipelineHandler) Cleanup(c *gin.Context) {
	report, err := h.signals.PurgeInvalid(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}

// RefreshPositions updates PnL on open positions from market quotes
// @Summary     Refresh open positions
// @Tags        pipeline
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.RefreshReport "Refresh report"
// @Router      /pipeline/positions/refresh [post]
func (h *PipelineHandler) RefreshPositions(c *gin.Context) {
	if h.positions == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingCredentials, "Quote provider is not configured"))
		return
	}

	report, err := h.positions.RefreshOpen(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
