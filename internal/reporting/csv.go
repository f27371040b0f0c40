package reporting

import (
	"fmt"
	"strings"
	"time"

	"vantage-journal/internal/domain"
)

// RenderDailyPnLCSV renders the daily P&L series as a CSV string.
func RenderDailyPnLCSV(points []domain.DailyPnLPoint) string {
	var sb strings.Builder

	sb.WriteString("date,pnl\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%.6f\n", p.Date, p.PnL))
	}

	return sb.String()
}

// RenderHistoryCSV renders the snapshot history as a CSV string.
func RenderHistoryCSV(history []*domain.StatsSnapshot) string {
	var sb strings.Builder

	sb.WriteString("computed_at,trade_count,total_pl,win_rate,profit_factor,max_drawdown_pct,sharpe_ratio,vantage_score\n")
	for _, h := range history {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.2f\n",
			h.ComputedAt.Format(time.RFC3339),
			h.TradeCount,
			h.TotalPL,
			h.WinRate,
			h.ProfitFactor,
			h.MaxDrawdownPct,
			h.SharpeRatio,
			h.VantageScore,
		))
	}

	return sb.String()
}
