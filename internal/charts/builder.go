// Package charts reshapes aggregated analytics into presentation-ready
// label/value buckets.
package charts

import (
	"fmt"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// UnspecifiedSetup labels trades journaled without a setup tag.
const UnspecifiedSetup = "Unspecified"

// WeekdayLabels index weekday buckets, Monday first.
var WeekdayLabels = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// rMultipleBins are the upper bounds of the histogram buckets; each bucket
// is right-closed, the last bucket is open-ended.
var rMultipleBins = []float64{-2, -1, 0, 1, 2, 3}

// RMultipleLabels name the histogram buckets in bin order.
var RMultipleLabels = []string{
	"< -2R", "-2R..-1R", "-1R..0R", "0R..1R", "1R..2R", "2R..3R", "> 3R",
}

// SetupChart groups total P&L by setup label, in order of first appearance.
// Trades without a setup fall into the UnspecifiedSetup bucket.
func SetupChart(trades []domain.EnrichedTrade) []domain.SetupChartEntry {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range trades {
		setup := t.Setup
		if setup == "" {
			setup = UnspecifiedSetup
		}
		if _, ok := totals[setup]; !ok {
			order = append(order, setup)
		}
		totals[setup] = totals[setup].Add(t.PL)
	}

	out := make([]domain.SetupChartEntry, 0, len(order))
	for _, setup := range order {
		out = append(out, domain.SetupChartEntry{
			Setup:   setup,
			TotalPL: totals[setup].InexactFloat64(),
		})
	}
	return out
}

// RMultipleHistogram buckets realized R-multiples into the fixed bins.
func RMultipleHistogram(realizedRRs []float64) domain.RMultipleData {
	counts := make([]int, len(rMultipleBins)+1)
	for _, rr := range realizedRRs {
		counts[binIndex(rr)]++
	}
	labels := make([]string, len(RMultipleLabels))
	copy(labels, RMultipleLabels)
	return domain.RMultipleData{Labels: labels, Data: counts}
}

func binIndex(rr float64) int {
	for i, upper := range rMultipleBins {
		if rr <= upper {
			return i
		}
	}
	return len(rMultipleBins)
}

// WeekdaySeries turns the weekday P&L buckets into parallel label/value
// slices, Monday through Sunday.
func WeekdaySeries(pnl [7]decimal.Decimal) domain.SeriesData {
	labels := make([]string, len(WeekdayLabels))
	copy(labels, WeekdayLabels)
	data := make([]float64, len(pnl))
	for i, v := range pnl {
		data[i] = v.InexactFloat64()
	}
	return domain.SeriesData{Labels: labels, Data: data}
}

// HourSeries turns the hour-of-day P&L buckets into parallel label/value
// slices labeled "00:00" through "23:00".
func HourSeries(pnl [24]decimal.Decimal) domain.SeriesData {
	labels := make([]string, len(pnl))
	data := make([]float64, len(pnl))
	for i, v := range pnl {
		labels[i] = fmt.Sprintf("%02d:00", i)
		data[i] = v.InexactFloat64()
	}
	return domain.SeriesData{Labels: labels, Data: data}
}
