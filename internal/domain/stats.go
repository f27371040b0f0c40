package domain

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Ratio is a statistic whose zero-denominator policy can saturate to +Inf
// (profit factor, win/loss ratio, recovery factor). encoding/json rejects
// IEEE infinities, so an infinite ratio serializes as the string "inf".
type Ratio float64

// IsInf reports whether the ratio saturated to +Inf.
func (r Ratio) IsInf() bool {
	return math.IsInf(float64(r), 1)
}

// MarshalJSON encodes +Inf as "inf" and everything else as a plain number.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.IsInf() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON accepts either a number or the "inf" string.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*r = Ratio(math.Inf(1))
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

// DirectionBreakdown holds per-direction trade counts.
type DirectionBreakdown struct {
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Breakeven int `json:"breakeven"`
	Total     int `json:"total"`
}

// EquityPoint is one point of the cumulative P&L curve.
type EquityPoint struct {
	Date string          `json:"date"` // day/month/year
	PL   decimal.Decimal `json:"pl"`
}

// DailyPnLPoint is one day of net P&L for chart consumption.
type DailyPnLPoint struct {
	Date string  `json:"date"` // year-month-day
	PnL  float64 `json:"pnl"`
}

// AggregateStats is the full set of scalar statistics computed from one
// trade set. TradeCount always equals WinningTradesCount +
// LosingTradesCount + BreakevenTradesCount.
type AggregateStats struct {
	// Base statistics.
	TotalPL              decimal.Decimal `json:"total_pl"`
	TradeCount           int             `json:"trade_count"`
	WinningTradesCount   int             `json:"winning_trades_count"`
	LosingTradesCount    int             `json:"losing_trades_count"`
	BreakevenTradesCount int             `json:"breakeven_trades_count"`
	AvgWin               decimal.Decimal `json:"avg_win"`
	AvgLoss              decimal.Decimal `json:"avg_loss"` // positive magnitude
	ProfitFactor         Ratio           `json:"profit_factor"`
	Expectancy           decimal.Decimal `json:"expectancy"`
	WinRate              float64         `json:"win_rate"` // 0-100
	AverageTradePnL      decimal.Decimal `json:"average_trade_pnl"`
	AverageWinLossRatio  Ratio           `json:"average_win_loss_ratio"`
	LargestProfit        decimal.Decimal `json:"largest_profit"`
	LargestLoss          decimal.Decimal `json:"largest_loss"`

	LongsWinPercentage  float64            `json:"longs_win_percentage"`
	ShortsWinPercentage float64            `json:"shorts_win_percentage"`
	LongTradesAnalysis  DirectionBreakdown `json:"long_trades_analysis"`
	ShortTradesAnalysis DirectionBreakdown `json:"short_trades_analysis"`

	// Execution efficiency (percentages) and average R-multiples.
	AvgSellEfficiency  float64 `json:"avg_sell_efficiency"`
	AvgTotalEfficiency float64 `json:"avg_total_efficiency"`
	AvgPlannedRR       float64 `json:"avg_planned_rr"`
	AvgRealizedRR      float64 `json:"avg_realized_rr"`

	// Drawdown.
	MaxDrawdownAbs  decimal.Decimal `json:"max_drawdown_abs"`
	MaxDrawdownPct  float64         `json:"max_drawdown_pct"`
	AverageDrawdown decimal.Decimal `json:"average_drawdown"`
	RecoveryFactor  Ratio           `json:"recovery_factor"`

	// Risk-adjusted ratios over daily returns.
	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio float64 `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`
	Skewness     float64 `json:"skewness"`
	Kurtosis     float64 `json:"kurtosis"`
	VaR95        float64 `json:"var_95"`  // magnitude of 5th percentile daily return
	CVaR95       float64 `json:"cvar_95"` // magnitude of mean tail loss

	// Daily aggregates.
	AverageDailyPnL      decimal.Decimal `json:"average_daily_pnl"`
	AverageWinningDay    decimal.Decimal `json:"average_winning_day_pnl"`
	AverageLosingDay     decimal.Decimal `json:"average_losing_day_pnl"`
	LargestProfitableDay decimal.Decimal `json:"largest_profitable_day"`
	LargestLosingDay     decimal.Decimal `json:"largest_losing_day"`
	WinningDays          int             `json:"winning_days"`
	LosingDays           int             `json:"losing_days"`
	BreakevenDays        int             `json:"breakeven_days"`
	DayWinPercentage     float64         `json:"day_win_percentage"`
	AverageDailyVolume   decimal.Decimal `json:"average_daily_volume"`
	NetDailyPnLChart     []DailyPnLPoint `json:"net_daily_pnl_chart"`

	// Streaks. Current streaks are signed: positive while winning,
	// negative while losing, zero after a breakeven result.
	MaxConsecutiveWins        int `json:"max_consecutive_wins"`
	MaxConsecutiveLosses      int `json:"max_consecutive_losses"`
	CurrentTradeStreak        int `json:"current_trade_streak"`
	MaxConsecutiveWinningDays int `json:"max_consecutive_winning_days"`
	MaxConsecutiveLosingDays  int `json:"max_consecutive_losing_days"`
	CurrentDayStreak          int `json:"current_day_streak"`

	// ConsistencyScore is the standard deviation of daily P&L; lower is
	// more consistent. Consumed by the Vantage scorer.
	ConsistencyScore float64 `json:"consistency_score"`

	// Holding time, in minutes.
	AverageHoldTime      float64 `json:"average_hold_time"`
	LongestTradeDuration float64 `json:"longest_trade_duration"`
}
