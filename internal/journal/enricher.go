package journal

import (
	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// Enrich computes the derived analytic fields for a single trade.
// The input record is copied; caller-owned data is never mutated, so the
// same trade slice can feed any number of independent analytic runs.
// Missing inputs degrade to zero-valued derived fields, never to an error.
func Enrich(t domain.TradeRecord) domain.EnrichedTrade {
	e := domain.EnrichedTrade{TradeRecord: t.Clone()}

	vpp := valuePerPoint(t)

	// MAE/MFE need entry, lowest, highest and direction, all positive.
	if t.EntryPrice.Sign() > 0 && t.LowestPriceDuringTrade.Sign() > 0 &&
		t.HighestPriceDuringTrade.Sign() > 0 && t.Direction != "" {
		if t.Direction == domain.DirectionLong {
			e.MAEPoints = t.EntryPrice.Sub(t.LowestPriceDuringTrade)
			e.MFEPoints = t.HighestPriceDuringTrade.Sub(t.EntryPrice)
		} else {
			e.MAEPoints = t.HighestPriceDuringTrade.Sub(t.EntryPrice)
			e.MFEPoints = t.EntryPrice.Sub(t.LowestPriceDuringTrade)
		}
		// MAE is always a potential loss, MFE a potential gain.
		e.MAEUSD = e.MAEPoints.Mul(vpp).Abs().Neg()
		e.MFEUSD = e.MFEPoints.Mul(vpp)
	}

	// R-multiples against the initial stop distance.
	risk := riskPoints(t)
	if risk.Sign() > 0 {
		initialDollarRisk := risk.Mul(vpp)

		var reward decimal.Decimal
		if !t.TakeProfitPrice.IsZero() && !t.EntryPrice.IsZero() {
			reward = t.TakeProfitPrice.Sub(t.EntryPrice).Abs()
		}

		e.PlannedRR = reward.Div(risk)
		e.StopLossUSD = initialDollarRisk.Abs().Neg()
		e.ProfitTargetUSD = reward.Mul(vpp)
		if initialDollarRisk.Sign() > 0 {
			e.RealizedRR = t.PL.Div(initialDollarRisk)
		}
	}

	// Net ROI as a percentage of entry cost.
	cost := t.EntryPrice.Mul(t.PositionSize)
	if !cost.IsZero() {
		e.NetROI = t.PL.Div(cost).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return e
}

// valuePerPoint infers the monetary value of one price point. When the
// direction, entry, exit and a non-zero P&L are all known, the multiplier
// is recovered from |p_l / points moved| (futures and other contracts with
// a fixed point value). Otherwise it falls back to the position size, or 1
// when the size is unknown (instruments priced in raw units).
func valuePerPoint(t domain.TradeRecord) decimal.Decimal {
	if t.Direction != "" && !t.EntryPrice.IsZero() && !t.ExitPrice.IsZero() && !t.PL.IsZero() {
		var points decimal.Decimal
		if t.Direction == domain.DirectionLong {
			points = t.ExitPrice.Sub(t.EntryPrice)
		} else {
			points = t.EntryPrice.Sub(t.ExitPrice)
		}
		if !points.IsZero() {
			return t.PL.Div(points).Abs()
		}
	}
	if t.PositionSize.IsZero() {
		return decimal.NewFromInt(1)
	}
	return t.PositionSize
}

// riskPoints is the stop distance |entry - stop|, zero when either price is
// unknown.
func riskPoints(t domain.TradeRecord) decimal.Decimal {
	if t.EntryPrice.IsZero() || t.StopLossPrice.IsZero() {
		return decimal.Decimal{}
	}
	return t.EntryPrice.Sub(t.StopLossPrice).Abs()
}
