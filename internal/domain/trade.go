package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of a trade.
type Direction string

const (
	DirectionLong  Direction = "Long"
	DirectionShort Direction = "Short"
)

// TradeRecord represents one journaled trade as entered by the user.
// All monetary and price fields are optional; a zero decimal means the
// field was never supplied, and every computation treats it as zero.
// Money stays in decimal form throughout aggregation; float64 conversion
// happens only inside statistical transforms.
type TradeRecord struct {
	TradeID string `json:"trade_id"`
	UserID  string `json:"user_id"`

	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`

	EntryPrice              decimal.Decimal `json:"entry_price"`
	ExitPrice               decimal.Decimal `json:"exit_price"`
	StopLossPrice           decimal.Decimal `json:"stop_loss_price"`
	TakeProfitPrice         decimal.Decimal `json:"take_profit_price"`
	PositionSize            decimal.Decimal `json:"position_size"`
	LowestPriceDuringTrade  decimal.Decimal `json:"lowest_price_during_trade"`
	HighestPriceDuringTrade decimal.Decimal `json:"highest_price_during_trade"`

	// PL is the realized profit/loss, signed.
	PL decimal.Decimal `json:"p_l"`

	// EntryTimestamp/ExitTimestamp are optional; zero time means not recorded.
	// CreatedAt is required and establishes chronological order for the
	// order-dependent aggregations (equity curve, drawdown, streaks).
	EntryTimestamp time.Time `json:"entry_timestamp"`
	ExitTimestamp  time.Time `json:"exit_timestamp"`
	CreatedAt      time.Time `json:"created_at"`

	Setup    string   `json:"setup"`
	Mistakes []string `json:"mistakes"`
}

// Clone returns a deep copy of the record. The analytics engine operates on
// copies so that concurrent callers never alias each other's trade slices.
func (t TradeRecord) Clone() TradeRecord {
	c := t
	if t.Mistakes != nil {
		c.Mistakes = make([]string, len(t.Mistakes))
		copy(c.Mistakes, t.Mistakes)
	}
	return c
}

// EnrichedTrade is a TradeRecord plus the per-trade derived analytics.
// Derived fields are recomputed on every analytics run; they are never
// persisted.
type EnrichedTrade struct {
	TradeRecord

	// Excursions, in points and in money. MAEUSD is reported non-positive
	// (worst potential loss), MFEUSD non-negative.
	MAEPoints decimal.Decimal `json:"mae_points"`
	MFEPoints decimal.Decimal `json:"mfe_points"`
	MAEUSD    decimal.Decimal `json:"mae_usd"`
	MFEUSD    decimal.Decimal `json:"mfe_usd"`

	// R-multiples against the initial stop distance.
	PlannedRR  decimal.Decimal `json:"planned_rr"`
	RealizedRR decimal.Decimal `json:"realized_rr"`

	StopLossUSD     decimal.Decimal `json:"stop_loss_usd"`
	ProfitTargetUSD decimal.Decimal `json:"profit_target_usd"`

	// NetROI is P&L as a percentage of entry cost (entry price * size).
	NetROI float64 `json:"net_roi"`
}
