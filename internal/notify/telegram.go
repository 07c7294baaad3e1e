// Package notify announces signal events on Telegram. Notifications are
// optional: a nil *Telegram is a no-op, so callers never guard sends.
package notify

import (
	"fmt"

	tb "gopkg.in/tucnak/telebot.v2"

	"klarpakke/internal/logger"
	"klarpakke/internal/models"
)

// Telegram sends signal announcements to a configured chat.
type Telegram struct {
	bot    *tb.Bot
	chatID int64
}

// NewTelegram creates a Telegram notifier. Returns nil (no-op notifier)
// when the token or chat ID is not configured.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}

	bot, err := tb.NewBot(tb.Settings{
		Token: token,
		// Send-only: no poller, the bot never consumes updates.
	})
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID}, nil
}

// SignalGenerated announces a freshly generated signal and whether the
// risk gate auto-approved it. Send failures are logged, never surfaced:
// notification is best-effort by contract.
func (t *Telegram) SignalGenerated(signal *models.Signal, autoApproved bool) {
	if t == nil {
		return
	}

	disposition := "awaiting manual review"
	if autoApproved {
		disposition = "auto-approved"
	}
	msg := fmt.Sprintf("New signal: %s %s (confidence %d%%), %s",
		signal.Symbol, signal.Direction, signal.ConfidencePercent(), disposition)

	if _, err := t.bot.Send(tb.ChatID(t.chatID), msg); err != nil {
		logger.Get().Warnw("telegram notification failed", "signal_id", signal.ID, "error", err)
	}
}

// SignalDecided announces a human approve/reject decision.
func (t *Telegram) SignalDecided(signal *models.Signal) {
	if t == nil {
		return
	}

	msg := fmt.Sprintf("Signal %s %s marked %s", signal.Symbol, signal.Direction, signal.Status)
	if _, err := t.bot.Send(tb.ChatID(t.chatID), msg); err != nil {
		logger.Get().Warnw("telegram notification failed", "signal_id", signal.ID, "error", err)
	}
}
