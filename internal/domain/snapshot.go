package domain

import "time"

// StatsSnapshot is a flat, append-only record of one analytics run, kept so
// the evolution of a trader's statistics can be charted over time.
// Values are stored as float64: snapshots are derived reporting data, not
// an accumulation surface.
type StatsSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	UserID     string    `json:"user_id"`
	ComputedAt time.Time `json:"computed_at"`

	TradeCount     int     `json:"trade_count"`
	TotalPL        float64 `json:"total_pl"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"` // +Inf allowed
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	VantageScore   float64 `json:"vantage_score"`
}
