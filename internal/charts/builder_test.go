package charts

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

func setupTrade(setup string, pl int64) domain.EnrichedTrade {
	var e domain.EnrichedTrade
	e.Setup = setup
	e.PL = decimal.NewFromInt(pl)
	return e
}

func TestSetupChart(t *testing.T) {
	got := SetupChart([]domain.EnrichedTrade{
		setupTrade("breakout", 100),
		setupTrade("", -30),
		setupTrade("breakout", 50),
		setupTrade("reversal", 20),
	})

	want := []domain.SetupChartEntry{
		{Setup: "breakout", TotalPL: 150},
		{Setup: UnspecifiedSetup, TotalPL: -30},
		{Setup: "reversal", TotalPL: 20},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SetupChart = %+v, want %+v (first-appearance order)", got, want)
	}
}

func TestSetupChart_Empty(t *testing.T) {
	got := SetupChart(nil)
	if len(got) != 0 {
		t.Errorf("SetupChart(nil) = %+v, want empty", got)
	}
}

func TestRMultipleHistogram_BinEdges(t *testing.T) {
	// Bins are right-closed: an exact boundary value falls in the lower
	// bucket; anything past 3 lands in the open-ended top bucket.
	got := RMultipleHistogram([]float64{
		-3,     // < -2R
		-2,     // boundary stays in the lower bucket
		-1,     // -2R..-1R
		-0.5,   // -1R..0R
		0,      // -1R..0R boundary
		0.5,    // 0R..1R
		2,      // 1R..2R boundary
		3,      // 2R..3R boundary
		3.0001, // just past the last bound: > 3R
		7,      // > 3R
	})

	wantData := []int{2, 1, 2, 1, 1, 1, 2}
	if !reflect.DeepEqual(got.Data, wantData) {
		t.Errorf("histogram data = %v, want %v", got.Data, wantData)
	}
	if !reflect.DeepEqual(got.Labels, RMultipleLabels) {
		t.Errorf("histogram labels = %v", got.Labels)
	}
	if len(got.Labels) != len(got.Data) {
		t.Error("labels and data lengths differ")
	}
}

func TestRMultipleHistogram_Empty(t *testing.T) {
	got := RMultipleHistogram(nil)
	for i, n := range got.Data {
		if n != 0 {
			t.Errorf("bucket %d = %d, want 0", i, n)
		}
	}
	if len(got.Labels) != 7 {
		t.Errorf("label count = %d, want 7", len(got.Labels))
	}
}

func TestWeekdaySeries(t *testing.T) {
	var pnl [7]decimal.Decimal
	pnl[0] = decimal.NewFromInt(100) // Monday
	pnl[6] = decimal.NewFromInt(-20) // Sunday

	got := WeekdaySeries(pnl)

	if got.Labels[0] != "Monday" || got.Labels[6] != "Sunday" {
		t.Errorf("labels = %v, want Monday first", got.Labels)
	}
	if got.Data[0] != 100 || got.Data[6] != -20 {
		t.Errorf("data = %v", got.Data)
	}
}

func TestHourSeries_Labels(t *testing.T) {
	var pnl [24]decimal.Decimal
	got := HourSeries(pnl)

	if len(got.Labels) != 24 || len(got.Data) != 24 {
		t.Fatalf("series lengths = %d/%d, want 24/24", len(got.Labels), len(got.Data))
	}
	if got.Labels[0] != "00:00" || got.Labels[9] != "09:00" || got.Labels[23] != "23:00" {
		t.Errorf("labels = %v, want zero-padded 24h clock", got.Labels)
	}
}
