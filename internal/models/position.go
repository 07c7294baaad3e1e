package models

import "time"

// PositionStatus represents whether a position is still held.
type PositionStatus string

const (
	PositionOpen   PositionStatus = "open"
	PositionClosed PositionStatus = "closed"
)

// Position represents an open or closed holding whose unrealized PnL is
// refreshed from a market quote provider.
type Position struct {
	Base
	Symbol       string         `gorm:"not null" json:"symbol"`
	EntryPrice   float64        `gorm:"not null" json:"entry_price"`
	Quantity     float64        `gorm:"not null" json:"quantity"`
	Status       PositionStatus `gorm:"not null;default:open;index" json:"status"`
	CurrentPrice float64        `json:"current_price"`
	PnlUSD       float64        `gorm:"column:pnl_usd" json:"pnl_usd"`
	PnlPercent   float64        `json:"pnl_percent"`
	LastPriceAt  *time.Time     `json:"last_price_at,omitempty"`
}
