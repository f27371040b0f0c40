package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"

	"vantage-journal/internal/domain"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Trading Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("User: %s | Trades: %d\n\n", r.UserID, r.Stats.TradeCount))

	// Vantage Score
	sb.WriteString("## Vantage Score\n\n")
	sb.WriteString(fmt.Sprintf("**Composite: %.2f / 100**\n\n", r.Score.VantageScore))
	sb.WriteString("| Component | Score |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Profit Factor | %.1f |\n", r.Score.ProfitFactorScore))
	sb.WriteString(fmt.Sprintf("| Avg Win/Loss | %.1f |\n", r.Score.AvgWinLossScore))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.1f |\n", r.Score.MaxDrawdownScore))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.1f |\n", r.Score.WinRateScore))
	sb.WriteString(fmt.Sprintf("| Consistency | %.1f |\n", r.Score.ConsistencyScore))
	sb.WriteString(fmt.Sprintf("| Recovery Factor | %.1f |\n", r.Score.RecoveryFactorScore))
	sb.WriteString("\n")

	// Performance summary
	s := r.Stats
	sb.WriteString("## Performance Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total P&L | %s |\n", s.TotalPL.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", s.WinRate))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatRatio(s.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Expectancy | %s |\n", s.Expectancy.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Avg Win | %s |\n", s.AvgWin.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Avg Loss | %s |\n", s.AvgLoss.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Avg Win/Loss Ratio | %s |\n", formatRatio(s.AverageWinLossRatio)))
	sb.WriteString(fmt.Sprintf("| Largest Profit | %s |\n", s.LargestProfit.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Largest Loss | %s |\n", s.LargestLoss.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Wins / Losses / BE | %d / %d / %d |\n",
		s.WinningTradesCount, s.LosingTradesCount, s.BreakevenTradesCount))
	sb.WriteString(fmt.Sprintf("| Longs Win %% | %.2f%% (%d trades) |\n", s.LongsWinPercentage, s.LongTradesAnalysis.Total))
	sb.WriteString(fmt.Sprintf("| Shorts Win %% | %.2f%% (%d trades) |\n", s.ShortsWinPercentage, s.ShortTradesAnalysis.Total))
	sb.WriteString("\n")

	// Risk
	sb.WriteString("## Risk\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %s (%.2f%%) |\n", s.MaxDrawdownAbs.StringFixed(2), s.MaxDrawdownPct))
	sb.WriteString(fmt.Sprintf("| Average Drawdown | %s |\n", s.AverageDrawdown.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("| Recovery Factor | %s |\n", formatRatio(s.RecoveryFactor)))
	sb.WriteString(fmt.Sprintf("| Sharpe | %.4f |\n", s.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Sortino | %.4f |\n", s.SortinoRatio))
	sb.WriteString(fmt.Sprintf("| Calmar | %.4f |\n", s.CalmarRatio))
	sb.WriteString(fmt.Sprintf("| VaR 95%% | %.2f |\n", s.VaR95))
	sb.WriteString(fmt.Sprintf("| CVaR 95%% | %.2f |\n", s.CVaR95))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Wins | %d |\n", s.MaxConsecutiveWins))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", s.MaxConsecutiveLosses))
	sb.WriteString("\n")

	// Per-setup breakdown
	sb.WriteString("## P&L by Setup\n\n")
	if len(r.SetupBreakdown) > 0 {
		sb.WriteString("| Setup | Total P&L |\n")
		sb.WriteString("|-------|-----------|\n")
		for _, e := range r.SetupBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %.2f |\n", e.Setup, e.TotalPL))
		}
	} else {
		sb.WriteString("No trades recorded.\n")
	}
	sb.WriteString("\n")

	// R-multiple distribution
	sb.WriteString("## R-Multiple Distribution\n\n")
	if len(r.RMultiples.Labels) > 0 && r.Stats.TradeCount > 0 {
		sb.WriteString("| Bucket | Trades |\n")
		sb.WriteString("|--------|--------|\n")
		for i, label := range r.RMultiples.Labels {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", label, r.RMultiples.Data[i]))
		}
	} else {
		sb.WriteString("No R-multiple data available.\n")
	}
	sb.WriteString("\n")

	// History
	sb.WriteString("## Score History\n\n")
	if len(r.History) > 0 {
		sb.WriteString("| Computed | Trades | Total P&L | Win Rate | Vantage |\n")
		sb.WriteString("|----------|--------|-----------|----------|--------|\n")
		for _, h := range r.History {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f%% | %.2f |\n",
				h.ComputedAt.Format("2006-01-02 15:04"), h.TradeCount, h.TotalPL, h.WinRate, h.VantageScore))
		}
	} else {
		sb.WriteString("No snapshot history available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func formatRatio(r domain.Ratio) string {
	if r.IsInf() {
		return "inf"
	}
	if math.IsNaN(float64(r)) {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(r))
}
