package models

import "time"

// RiskDateLayout is the calendar-day key format for the risk meter.
const RiskDateLayout = "2006-01-02"

// DailyRiskMeter aggregates the risk committed by auto-approved signals
// for a single calendar day. TotalRiskUSD only ever grows within a day;
// there is no cancellation path.
type DailyRiskMeter struct {
	Base
	Date         string  `gorm:"uniqueIndex;not null" json:"date"`
	TotalRiskUSD float64 `gorm:"column:total_risk_usd;not null;default:0" json:"total_risk_usd"`
}

// RiskDate formats t as a risk-meter day key in UTC.
func RiskDate(t time.Time) string {
	return t.UTC().Format(RiskDateLayout)
}
