package journal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// Risk ratios are undefined on fewer than three distinct trading days.
const minTradingDays = 3

const annualTradingDays = 252

// advancedResult carries the series the chart builder consumes in addition
// to the scalar fields written into AggregateStats.
type advancedResult struct {
	equityCurve  []domain.EquityPoint
	realizedRRs  []float64
	pnlByWeekday [7]decimal.Decimal
	pnlByHour    [24]decimal.Decimal
}

// computeAdvancedStats fills the order-dependent statistics: equity curve,
// drawdown, efficiencies, daily aggregates, risk-adjusted ratios, streaks
// and temporal breakdowns. Trades must already be sorted ascending by
// created_at; every scan below relies on that order.
func computeAdvancedStats(trades []domain.EnrichedTrade, base *baseResult) *advancedResult {
	r := &advancedResult{}
	s := &base.stats

	computeEquityAndDrawdown(trades, base, r)
	computeEfficiencies(trades, base)
	computeRRAverages(trades, s, r)
	days := computeDailyAggregates(trades, s)
	computeRiskRatios(days, s)
	computeStreaks(trades, days, s)
	computeTemporal(trades, s, r)

	return r
}

func parseDay(key string) (time.Time, error) {
	return time.Parse("2006-01-02", key)
}

// dayBucket accumulates one calendar day of trading.
type dayBucket struct {
	date   string // year-month-day
	pl     decimal.Decimal
	volume decimal.Decimal
}

func computeEquityAndDrawdown(trades []domain.EnrichedTrade, base *baseResult, r *advancedResult) {
	s := &base.stats
	if len(trades) == 0 {
		return
	}

	// Equity starts from a synthetic zero point so drawdown episodes that
	// begin on the first losing trade are counted.
	equity := make([]decimal.Decimal, 0, len(trades)+1)
	equity = append(equity, decimal.Zero)
	var cum decimal.Decimal
	r.equityCurve = make([]domain.EquityPoint, 0, len(trades))
	for _, t := range trades {
		cum = cum.Add(t.PL)
		equity = append(equity, cum)
		r.equityCurve = append(r.equityCurve, domain.EquityPoint{
			Date: t.CreatedAt.Format("02/01/2006"),
			PL:   cum,
		})
	}

	var peak, maxDD decimal.Decimal
	var episodeMax decimal.Decimal
	inEpisode := false
	var episodeSum decimal.Decimal
	episodes := 0
	for _, eq := range equity {
		// Returning to the prior peak ends the episode; a later dip starts
		// a new one.
		if eq.GreaterThanOrEqual(peak) {
			if inEpisode {
				episodeSum = episodeSum.Add(episodeMax)
				episodes++
				inEpisode = false
			}
			peak = eq
			continue
		}
		dd := peak.Sub(eq)
		if dd.Sign() > 0 {
			if !inEpisode {
				inEpisode = true
				episodeMax = decimal.Zero
			}
			if dd.GreaterThan(episodeMax) {
				episodeMax = dd
			}
			if dd.GreaterThan(maxDD) {
				maxDD = dd
			}
		}
	}
	if inEpisode {
		episodeSum = episodeSum.Add(episodeMax)
		episodes++
	}

	s.MaxDrawdownAbs = maxDD
	if episodes > 0 {
		s.AverageDrawdown = episodeSum.Div(decimal.NewFromInt(int64(episodes)))
	}
	// Percentage drawdown is taken against the final peak of the curve, not
	// the peak at the moment of maximum depth.
	if peak.Sign() > 0 {
		s.MaxDrawdownPct = maxDD.Div(peak).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	s.RecoveryFactor = saturatingRatio(s.TotalPL, maxDD)
}

func computeEfficiencies(trades []domain.EnrichedTrade, base *baseResult) {
	s := &base.stats

	var sellEffs []float64
	for _, t := range base.winning {
		if t.MFEPoints.Sign() <= 0 {
			continue
		}
		if t.EntryPrice.Sign() <= 0 || t.ExitPrice.Sign() <= 0 {
			continue
		}
		// Captured distance is unsigned; a winner booked against its
		// recorded direction still counts what the exit captured.
		captured := t.ExitPrice.Sub(t.EntryPrice).Abs()
		sellEffs = append(sellEffs, captured.Div(t.MFEPoints).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}
	s.AvgSellEfficiency = computeMean(sellEffs)

	var totalEffs []float64
	for _, t := range trades {
		mfe := t.MFEPoints
		span := mfe.Add(t.MAEPoints.Abs())
		if span.Sign() <= 0 {
			continue
		}
		totalEffs = append(totalEffs, mfe.Div(span).Mul(decimal.NewFromInt(100)).InexactFloat64())
	}
	s.AvgTotalEfficiency = computeMean(totalEffs)
}

func computeRRAverages(trades []domain.EnrichedTrade, s *domain.AggregateStats, r *advancedResult) {
	var planned, realized []float64
	for _, t := range trades {
		if riskPoints(t.TradeRecord).Sign() <= 0 {
			continue
		}
		if t.PlannedRR.Sign() > 0 {
			planned = append(planned, t.PlannedRR.InexactFloat64())
		}
		rr := t.RealizedRR.InexactFloat64()
		realized = append(realized, rr)
		r.realizedRRs = append(r.realizedRRs, rr)
	}
	s.AvgPlannedRR = computeMean(planned)
	s.AvgRealizedRR = computeMean(realized)
}

// computeDailyAggregates groups trades by calendar day of created_at and
// derives the day-level counterparts of the trade-level stats. The returned
// buckets preserve chronological order.
func computeDailyAggregates(trades []domain.EnrichedTrade, s *domain.AggregateStats) []*dayBucket {
	byDate := make(map[string]*dayBucket)
	var days []*dayBucket
	for _, t := range trades {
		key := t.CreatedAt.Format("2006-01-02")
		b, ok := byDate[key]
		if !ok {
			b = &dayBucket{date: key}
			byDate[key] = b
			days = append(days, b)
		}
		b.pl = b.pl.Add(t.PL)
		b.volume = b.volume.Add(t.PositionSize)
	}
	if len(days) == 0 {
		return nil
	}

	var totalPL, totalVolume, winSum, lossSum decimal.Decimal
	s.NetDailyPnLChart = make([]domain.DailyPnLPoint, 0, len(days))
	for _, d := range days {
		totalPL = totalPL.Add(d.pl)
		totalVolume = totalVolume.Add(d.volume)
		s.NetDailyPnLChart = append(s.NetDailyPnLChart, domain.DailyPnLPoint{
			Date: d.date,
			PnL:  d.pl.InexactFloat64(),
		})
		switch d.pl.Sign() {
		case 1:
			s.WinningDays++
			winSum = winSum.Add(d.pl)
			if d.pl.GreaterThan(s.LargestProfitableDay) {
				s.LargestProfitableDay = d.pl
			}
		case -1:
			s.LosingDays++
			lossSum = lossSum.Add(d.pl)
			if d.pl.LessThan(s.LargestLosingDay) {
				s.LargestLosingDay = d.pl
			}
		default:
			s.BreakevenDays++
		}
	}

	n := decimal.NewFromInt(int64(len(days)))
	s.AverageDailyPnL = totalPL.Div(n)
	s.AverageDailyVolume = totalVolume.Div(n)
	if s.WinningDays > 0 {
		s.AverageWinningDay = winSum.Div(decimal.NewFromInt(int64(s.WinningDays)))
	}
	if s.LosingDays > 0 {
		s.AverageLosingDay = lossSum.Div(decimal.NewFromInt(int64(s.LosingDays)))
	}
	s.DayWinPercentage = float64(s.WinningDays) / float64(len(days)) * 100

	dailyPL := make([]float64, len(days))
	for i, d := range days {
		dailyPL[i] = d.pl.InexactFloat64()
	}
	s.ConsistencyScore = computeStdDev(dailyPL, computeMean(dailyPL))

	return days
}

// computeRiskRatios derives Sharpe, Sortino, Calmar, skewness, kurtosis and
// the 95% VaR/CVaR from daily P&L deltas. All of them stay zero below
// minTradingDays distinct days.
func computeRiskRatios(days []*dayBucket, s *domain.AggregateStats) {
	if len(days) < minTradingDays {
		return
	}

	returns := make([]float64, len(days))
	for i, d := range days {
		returns[i] = d.pl.InexactFloat64()
	}
	mean := computeMean(returns)
	std := computeStdDev(returns, mean)
	if std > 0 {
		s.SharpeRatio = mean / std * math.Sqrt(annualTradingDays)
	}

	var negatives []float64
	for _, v := range returns {
		if v < 0 {
			negatives = append(negatives, v)
		}
	}
	if len(negatives) > 0 {
		downside := computeStdDev(negatives, computeMean(negatives))
		if downside > 0 {
			s.SortinoRatio = mean / downside * math.Sqrt(annualTradingDays)
		}
	}

	first, _ := parseDay(days[0].date)
	last, _ := parseDay(days[len(days)-1].date)
	daysSpanned := int(last.Sub(first).Hours() / 24)
	if daysSpanned > 0 && s.MaxDrawdownAbs.Sign() > 0 {
		annualized := s.TotalPL.InexactFloat64() * 365 / float64(daysSpanned)
		s.CalmarRatio = annualized / s.MaxDrawdownAbs.InexactFloat64()
	}

	s.Skewness = computeSkewness(returns)
	s.Kurtosis = computeKurtosis(returns)

	sorted := sortedCopy(returns)
	v := computePercentile(sorted, 0.05)
	var tail []float64
	for _, ret := range sorted {
		if ret <= v {
			tail = append(tail, ret)
		}
	}
	s.VaR95 = math.Abs(v)
	s.CVaR95 = math.Abs(computeMean(tail))
}

func computeStreaks(trades []domain.EnrichedTrade, days []*dayBucket, s *domain.AggregateStats) {
	tradeSigns := make([]int, len(trades))
	for i, t := range trades {
		tradeSigns[i] = t.PL.Sign()
	}
	s.MaxConsecutiveWins, s.MaxConsecutiveLosses, s.CurrentTradeStreak = scanStreaks(tradeSigns)

	daySigns := make([]int, len(days))
	for i, d := range days {
		daySigns[i] = d.pl.Sign()
	}
	s.MaxConsecutiveWinningDays, s.MaxConsecutiveLosingDays, s.CurrentDayStreak = scanStreaks(daySigns)
}

// scanStreaks walks a chronological sequence of result signs. A breakeven
// result (sign 0) resets the running streak. The returned current streak is
// signed: positive while winning, negative while losing.
func scanStreaks(signs []int) (maxWins, maxLosses, current int) {
	for _, sign := range signs {
		switch sign {
		case 1:
			if current > 0 {
				current++
			} else {
				current = 1
			}
			if current > maxWins {
				maxWins = current
			}
		case -1:
			if current < 0 {
				current--
			} else {
				current = -1
			}
			if -current > maxLosses {
				maxLosses = -current
			}
		default:
			current = 0
		}
	}
	return maxWins, maxLosses, current
}

func computeTemporal(trades []domain.EnrichedTrade, s *domain.AggregateStats, r *advancedResult) {
	var holds []float64
	for _, t := range trades {
		if !t.EntryTimestamp.IsZero() {
			// Monday maps to index 0.
			wd := (int(t.EntryTimestamp.Weekday()) + 6) % 7
			r.pnlByWeekday[wd] = r.pnlByWeekday[wd].Add(t.PL)
			r.pnlByHour[t.EntryTimestamp.Hour()] = r.pnlByHour[t.EntryTimestamp.Hour()].Add(t.PL)
		}
		if !t.EntryTimestamp.IsZero() && !t.ExitTimestamp.IsZero() {
			holds = append(holds, t.ExitTimestamp.Sub(t.EntryTimestamp).Minutes())
		}
	}
	s.AverageHoldTime = computeMean(holds)
	for _, h := range holds {
		if h > s.LongestTradeDuration {
			s.LongestTradeDuration = h
		}
	}
}
