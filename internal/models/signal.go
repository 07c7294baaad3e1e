package models

import "strings"

// SignalDirection represents the proposed trade direction.
type SignalDirection string

const (
	DirectionBuy  SignalDirection = "BUY"
	DirectionSell SignalDirection = "SELL"
)

// SignalStatus represents the lifecycle state of a signal.
// A signal is created as pending and transitions to approved or
// rejected exactly once; terminal states never go back to pending.
type SignalStatus string

const (
	StatusPending  SignalStatus = "pending"
	StatusApproved SignalStatus = "approved"
	StatusRejected SignalStatus = "rejected"
)

// Terminal reports whether the status is approved or rejected.
func (s SignalStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Signal represents an AI-generated trading signal awaiting or having
// received a disposition.
type Signal struct {
	Base
	Symbol     string          `gorm:"not null" json:"symbol"`
	Direction  SignalDirection `gorm:"not null" json:"direction"`
	Confidence float64         `gorm:"not null" json:"confidence"`
	Reason     string          `json:"reason"`
	AIModel    string          `gorm:"column:ai_model" json:"ai_model"`
	Status     SignalStatus    `gorm:"not null;default:pending;index" json:"status"`
}

// HasSymbol reports whether the signal carries a non-blank symbol.
// Signals without one are considered corrupt: they are never synced
// and are removed by cleanup.
func (s *Signal) HasSymbol() bool {
	return strings.TrimSpace(s.Symbol) != ""
}

// Slug derives the stable key used to deduplicate the signal in the
// display collection: lowercased symbol plus the first 8 characters
// of the signal ID.
func (s *Signal) Slug() string {
	id := s.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToLower(s.Symbol) + "-" + id
}

// ConfidencePercent returns the confidence rounded to an integer percent.
func (s *Signal) ConfidencePercent() int {
	return int(s.Confidence*100 + 0.5)
}
