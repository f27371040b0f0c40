package journal

import (
	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// FilterCriteria narrows a trade set before analysis. Nil bounds are
// unconstrained. Durations are in minutes, RR bounds apply to realized
// R-multiples.
type FilterCriteria struct {
	MinDuration *float64
	MaxDuration *float64
	MinRR       *float64
	MaxRR       *float64
}

// IsZero reports whether the criteria impose no constraint.
func (c FilterCriteria) IsZero() bool {
	return c.MinDuration == nil && c.MaxDuration == nil && c.MinRR == nil && c.MaxRR == nil
}

// FilterTrades returns the trades matching the criteria, preserving input
// order. Duration bounds only apply to trades with both timestamps
// recorded, and RR bounds only to trades with a measurable initial risk;
// trades missing the underlying data pass through unfiltered.
func FilterTrades(trades []domain.TradeRecord, c FilterCriteria) []domain.TradeRecord {
	if c.IsZero() {
		return trades
	}
	out := make([]domain.TradeRecord, 0, len(trades))
	for _, t := range trades {
		if !matchesDuration(t, c) || !matchesRR(t, c) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesDuration(t domain.TradeRecord, c FilterCriteria) bool {
	if c.MinDuration == nil && c.MaxDuration == nil {
		return true
	}
	if t.EntryTimestamp.IsZero() || t.ExitTimestamp.IsZero() {
		return true
	}
	minutes := t.ExitTimestamp.Sub(t.EntryTimestamp).Minutes()
	if c.MinDuration != nil && minutes < *c.MinDuration {
		return false
	}
	if c.MaxDuration != nil && minutes > *c.MaxDuration {
		return false
	}
	return true
}

func matchesRR(t domain.TradeRecord, c FilterCriteria) bool {
	if c.MinRR == nil && c.MaxRR == nil {
		return true
	}
	risk := riskPoints(t)
	if risk.Sign() <= 0 {
		return true
	}
	// The filter deliberately uses a simplified value-per-point equal to
	// position size, not the enricher's inferred multiplier.
	vpp := t.PositionSize
	if vpp.Sign() <= 0 {
		vpp = decimal.NewFromInt(1)
	}
	rr := t.PL.Div(risk.Mul(vpp)).InexactFloat64()
	if c.MinRR != nil && rr < *c.MinRR {
		return false
	}
	if c.MaxRR != nil && rr > *c.MaxRR {
		return false
	}
	return true
}
