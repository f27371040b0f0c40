package journal

import (
	"math"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// baseResult carries the base statistics plus the working slices the
// advanced pass needs. The working slices are never part of the output
// payload.
type baseResult struct {
	stats   domain.AggregateStats
	winning []domain.EnrichedTrade
	pnl     []decimal.Decimal // one entry per trade, input order
}

// computeBaseStats partitions the trade set into winning/losing/breakeven
// and derives the P&L sums and ratios. All money accumulation is exact
// decimal arithmetic; ratio outputs cross to float64 only at the end.
func computeBaseStats(trades []domain.EnrichedTrade) *baseResult {
	r := &baseResult{pnl: make([]decimal.Decimal, len(trades))}
	s := &r.stats

	var totalWin, totalLoss decimal.Decimal
	for i, t := range trades {
		pnl := t.PL
		r.pnl[i] = pnl
		s.TotalPL = s.TotalPL.Add(pnl)

		switch pnl.Sign() {
		case 1:
			s.WinningTradesCount++
			totalWin = totalWin.Add(pnl)
			r.winning = append(r.winning, t)
			if pnl.GreaterThan(s.LargestProfit) {
				s.LargestProfit = pnl
			}
		case -1:
			s.LosingTradesCount++
			totalLoss = totalLoss.Add(pnl)
			if pnl.LessThan(s.LargestLoss) {
				s.LargestLoss = pnl
			}
		default:
			s.BreakevenTradesCount++
		}

		switch t.Direction {
		case domain.DirectionLong:
			tallyDirection(&s.LongTradesAnalysis, pnl)
		case domain.DirectionShort:
			tallyDirection(&s.ShortTradesAnalysis, pnl)
		}
	}
	totalLoss = totalLoss.Abs()

	s.TradeCount = len(trades)
	if s.TradeCount == 0 {
		return r
	}

	count := decimal.NewFromInt(int64(s.TradeCount))
	s.AverageTradePnL = s.TotalPL.Div(count)

	if s.WinningTradesCount > 0 {
		s.AvgWin = totalWin.Div(decimal.NewFromInt(int64(s.WinningTradesCount)))
	}
	if s.LosingTradesCount > 0 {
		s.AvgLoss = totalLoss.Div(decimal.NewFromInt(int64(s.LosingTradesCount)))
	}

	s.ProfitFactor = saturatingRatio(totalWin, totalLoss)
	s.AverageWinLossRatio = saturatingRatio(s.AvgWin, s.AvgLoss)

	winRate := decimal.NewFromInt(int64(s.WinningTradesCount)).Div(count)
	s.WinRate = winRate.Mul(decimal.NewFromInt(100)).InexactFloat64()

	one := decimal.NewFromInt(1)
	s.Expectancy = winRate.Mul(s.AvgWin).Sub(one.Sub(winRate).Mul(s.AvgLoss))

	s.LongsWinPercentage = directionWinPct(s.LongTradesAnalysis)
	s.ShortsWinPercentage = directionWinPct(s.ShortTradesAnalysis)

	return r
}

// tallyDirection updates one direction's breakdown for a trade result.
func tallyDirection(b *domain.DirectionBreakdown, pnl decimal.Decimal) {
	b.Total++
	switch pnl.Sign() {
	case 1:
		b.Wins++
	case -1:
		b.Losses++
	default:
		b.Breakeven++
	}
}

// directionWinPct is the per-direction win rate on a 0-100 scale, 0 when
// the direction has no trades.
func directionWinPct(b domain.DirectionBreakdown) float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Wins) / float64(b.Total) * 100
}

// saturatingRatio divides numerator by denominator with the engine's
// zero-denominator policy: +Inf when the denominator is zero but the
// numerator is positive, 0 when both are zero.
func saturatingRatio(num, den decimal.Decimal) domain.Ratio {
	if den.Sign() > 0 {
		return domain.Ratio(num.Div(den).InexactFloat64())
	}
	if num.Sign() > 0 {
		return domain.Ratio(math.Inf(1))
	}
	return 0
}
