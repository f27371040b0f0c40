package reporting

import (
	"time"

	"vantage-journal/internal/domain"
)

// Report is the offline performance report for one trader's journal.
type Report struct {
	GeneratedAt time.Time
	UserID      string

	// Aggregated statistics and the composite score for the full journal.
	Stats domain.AggregateStats
	Score domain.VantageScore

	// Chart-shaped breakdowns.
	SetupBreakdown []domain.SetupChartEntry
	RMultiples     domain.RMultipleData
	DailyPnL       []domain.DailyPnLPoint

	// Snapshot history, oldest first. Empty when no snapshot store is
	// available.
	History []*domain.StatsSnapshot
}
