package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "klarpakke/internal/errors"
	"klarpakke/internal/models"
	"klarpakke/internal/notify"
	"klarpakke/internal/pagination"
	"klarpakke/internal/services"
)

// SignalHandler handles signal read and approval requests.
type SignalHandler struct {
	signalService services.SignalServicer
	notifier      *notify.Telegram
}

// NewSignalHandler creates a new SignalHandler. notifier may be nil.
func NewSignalHandler(signalService services.SignalServicer, notifier *notify.Telegram) *SignalHandler {
	return &SignalHandler{signalService: signalService, notifier: notifier}
}

// ListSignalsRequest holds the query parameters for listing signals.
type ListSignalsRequest struct {
	Status string `form:"status" binding:"omitempty,signal_status"`
	pagination.PageRequest
}

// DecideRequest represents the approve/reject payload posted by the
// approval dashboard.
type DecideRequest struct {
	SignalID string `json:"signal_id" binding:"required"`
	Action   string `json:"action" binding:"required,signal_action"`
}

// ListSignals returns signals, most recent first
// @Summary     List signals
// @Tags        signals
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status (pending/approved/rejected)"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} map[string]interface{} "Paginated signals"
// @Router      /signals [get]
func (h *SignalHandler) ListSignals(c *gin.Context) {
	var req ListSignalsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.SignalStatus
	if req.Status != "" {
		s := models.SignalStatus(req.Status)
		status = &s
	}

	result, err := h.signalService.ListSignals(status, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"signals": result})
}

// GetSignal returns a single signal
// @Summary     Get signal by ID
// @Tags        signals
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Signal ID"
// @Success     200 {object} map[string]interface{} "Signal"
// @Failure     404 {object} map[string]interface{} "Signal not found"
// @Router      /signals/{id} [get]
func (h *SignalHandler) GetSignal(c *gin.Context) {
	signal, err := h.signalService.GetSignalByID(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"signal": signal})
}

// Decide applies a human approve/reject action to a signal
// @Summary     Approve or reject a signal
// @Tags        signals
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body DecideRequest true "Decision"
// @Success     200 {object} map[string]interface{} "Updated signal"
// @Failure     400 {object} map[string]interface{} "Invalid signal_id or action"
// @Failure     404 {object} map[string]interface{} "Signal not found"
// @Failure     409 {object} map[string]interface{} "Signal already finalized"
// @Router      /signals/decide [post]
func (h *SignalHandler) Decide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidAction, "Invalid signal_id or action"))
		return
	}

	signal, err := h.signalService.Decide(req.SignalID, req.Action)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.notifier.SignalDecided(signal)

	c.JSON(http.StatusOK, gin.H{"success": true, "signal": signal})
}
