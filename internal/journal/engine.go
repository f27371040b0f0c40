// Package journal implements the trade analytics engine: per-trade
// enrichment, aggregate statistics, and the data series behind the
// dashboard charts. The engine is a pure computation over an in-memory
// trade list; it performs no I/O and keeps no state between runs.
package journal

import (
	"errors"
	"fmt"
	"sort"

	"vantage-journal/internal/charts"
	"vantage-journal/internal/domain"
	"vantage-journal/internal/scoring"
)

// ErrTooManyTrades is returned when the input exceeds the engine's
// configured trade cap.
var ErrTooManyTrades = errors.New("journal: trade set exceeds configured maximum")

// DefaultMaxTrades bounds a single analytics run. The computation is linear
// in trade count; the cap exists for request latency control, not memory.
const DefaultMaxTrades = 50000

// Options configure an Engine.
type Options struct {
	// MaxTrades caps the input size per run. Zero means DefaultMaxTrades;
	// negative disables the cap.
	MaxTrades int
}

// Engine computes analytics over trade sets. The zero value is not usable;
// construct with NewEngine. An Engine is stateless and safe for concurrent
// use across independent trade sets.
type Engine struct {
	maxTrades int
}

// NewEngine returns an analytics engine with the given options.
func NewEngine(opts Options) *Engine {
	maxTrades := opts.MaxTrades
	if maxTrades == 0 {
		maxTrades = DefaultMaxTrades
	}
	return &Engine{maxTrades: maxTrades}
}

// Result is the full analytics payload for one trade set.
type Result struct {
	// Trades is the enriched input, sorted by created_at descending
	// (newest first).
	Trades []domain.EnrichedTrade `json:"trades"`

	Stats domain.AggregateStats `json:"stats"`

	EquityCurveData   []domain.EquityPoint     `json:"equity_curve_data"`
	SetupChartData    []domain.SetupChartEntry `json:"setup_chart_data"`
	RMultipleData     domain.RMultipleData     `json:"r_multiple_data"`
	PerformanceByDay  domain.SeriesData        `json:"performance_by_day"`
	PerformanceByHour domain.SeriesData        `json:"performance_by_hour"`
}

// Analyze runs the full pipeline: enrich each trade, aggregate base and
// advanced statistics, and build the chart series. The input slice is never
// mutated; every run operates on its own copies.
func (e *Engine) Analyze(trades []domain.TradeRecord) (*Result, error) {
	if e.maxTrades > 0 && len(trades) > e.maxTrades {
		return nil, fmt.Errorf("%w: %d trades, maximum %d", ErrTooManyTrades, len(trades), e.maxTrades)
	}
	if len(trades) == 0 {
		return emptyResult(), nil
	}

	enriched := make([]domain.EnrichedTrade, len(trades))
	for i, t := range trades {
		enriched[i] = Enrich(t)
	}
	// Chronological order for the order-dependent aggregations; stable so
	// same-timestamp trades keep their input order.
	sort.SliceStable(enriched, func(i, j int) bool {
		return enriched[i].CreatedAt.Before(enriched[j].CreatedAt)
	})

	base := computeBaseStats(enriched)
	adv := computeAdvancedStats(enriched, base)

	res := &Result{
		Stats:             base.stats,
		EquityCurveData:   adv.equityCurve,
		SetupChartData:    charts.SetupChart(enriched),
		RMultipleData:     charts.RMultipleHistogram(adv.realizedRRs),
		PerformanceByDay:  charts.WeekdaySeries(adv.pnlByWeekday),
		PerformanceByHour: charts.HourSeries(adv.pnlByHour),
	}

	// Newest first for presentation.
	for i, j := 0, len(enriched)-1; i < j; i, j = i+1, j-1 {
		enriched[i], enriched[j] = enriched[j], enriched[i]
	}
	res.Trades = enriched

	return res, nil
}

// emptyResult is the payload for a trade set with no trades: zero stats and
// every chart series empty rather than zero-filled.
func emptyResult() *Result {
	return &Result{
		Trades:            []domain.EnrichedTrade{},
		EquityCurveData:   []domain.EquityPoint{},
		SetupChartData:    []domain.SetupChartEntry{},
		RMultipleData:     domain.RMultipleData{Labels: []string{}, Data: []int{}},
		PerformanceByDay:  domain.SeriesData{Labels: []string{}, Data: []float64{}},
		PerformanceByHour: domain.SeriesData{Labels: []string{}, Data: []float64{}},
	}
}

// VantageScore computes the composite quality score for a trade set. The
// empty set scores zero across the board; it never reaches the scorer,
// whose drawdown sub-score would otherwise reward the absence of trades.
func (e *Engine) VantageScore(trades []domain.TradeRecord) (domain.VantageScore, error) {
	if len(trades) == 0 {
		return domain.VantageScore{}, nil
	}
	res, err := e.Analyze(trades)
	if err != nil {
		return domain.VantageScore{}, err
	}
	return scoring.Compute(res.Stats), nil
}

// Score is VantageScore over an already-computed result.
func Score(stats domain.AggregateStats) domain.VantageScore {
	if stats.TradeCount == 0 {
		return domain.VantageScore{}
	}
	return scoring.Compute(stats)
}
