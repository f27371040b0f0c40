package scoring

import (
	"math"

	"vantage-journal/internal/domain"
)

// Composite weights. They sum to 1.
const (
	weightProfitFactor = 0.25
	weightAvgWinLoss   = 0.20
	weightMaxDrawdown  = 0.20
	weightWinRate      = 0.15
	weightConsistency  = 0.10
	weightRecovery     = 0.10
)

// Compute derives the six sub-scores and their weighted composite from the
// aggregated statistics. Callers must short-circuit the empty trade set
// before scoring; an all-zero stats struct would otherwise earn the full
// drawdown sub-score.
func Compute(stats domain.AggregateStats) domain.VantageScore {
	score := domain.VantageScore{
		ProfitFactorScore:   ratioCurve.Score(float64(stats.ProfitFactor)),
		AvgWinLossScore:     ratioCurve.Score(float64(stats.AverageWinLossRatio)),
		MaxDrawdownScore:    math.Max(0, 100-stats.MaxDrawdownPct),
		WinRateScore:        math.Min(100, stats.WinRate/60*100),
		ConsistencyScore:    consistencyScore(stats),
		RecoveryFactorScore: recoveryCurve.Score(float64(stats.RecoveryFactor)),
	}

	composite := weightProfitFactor*score.ProfitFactorScore +
		weightAvgWinLoss*score.AvgWinLossScore +
		weightMaxDrawdown*score.MaxDrawdownScore +
		weightWinRate*score.WinRateScore +
		weightConsistency*score.ConsistencyScore +
		weightRecovery*score.RecoveryFactorScore
	score.VantageScore = math.Round(composite*100) / 100

	return score
}

// consistencyScore rewards low daily P&L dispersion relative to total
// profit. Unprofitable accounts score zero regardless of dispersion.
func consistencyScore(stats domain.AggregateStats) float64 {
	totalPL := stats.TotalPL.InexactFloat64()
	if totalPL <= 0 {
		return 0
	}
	std := stats.ConsistencyScore
	if std == 0 {
		return 100
	}
	return math.Max(0, 100-std/totalPL*100)
}
