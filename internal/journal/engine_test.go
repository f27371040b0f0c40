package journal

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"vantage-journal/internal/domain"
)

func TestAnalyze_EmptySet(t *testing.T) {
	eng := NewEngine(Options{})

	res, err := eng.Analyze(nil)
	if err != nil {
		t.Fatalf("Analyze(nil) error: %v", err)
	}
	if res.Stats.TradeCount != 0 || !res.Stats.TotalPL.IsZero() {
		t.Errorf("empty set should yield zero stats, got %+v", res.Stats)
	}
	if len(res.Trades) != 0 || len(res.EquityCurveData) != 0 {
		t.Error("empty set should yield empty series")
	}
	if len(res.SetupChartData) != 0 {
		t.Errorf("setup chart = %+v, want empty", res.SetupChartData)
	}
	// Chart series come back empty, not zero-filled over the fixed buckets.
	if len(res.RMultipleData.Labels) != 0 || len(res.RMultipleData.Data) != 0 {
		t.Errorf("r-multiple histogram = %+v, want empty labels and data", res.RMultipleData)
	}
	if len(res.PerformanceByDay.Labels) != 0 || len(res.PerformanceByHour.Labels) != 0 {
		t.Error("weekday/hour series should be empty for an empty trade set")
	}

	score, err := eng.VantageScore(nil)
	if err != nil {
		t.Fatalf("VantageScore(nil) error: %v", err)
	}
	if score != (domain.VantageScore{}) {
		t.Errorf("empty set score = %+v, want all zeros (the drawdown sub-score must not fire)", score)
	}
}

func TestAnalyze_TradesNewestFirst(t *testing.T) {
	day := func(d int) domain.TradeRecord {
		return domain.TradeRecord{
			TradeID:   string(rune('a' + d)),
			PL:        dec("10"),
			CreatedAt: time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
		}
	}
	eng := NewEngine(Options{})

	res, err := eng.Analyze([]domain.TradeRecord{day(2), day(1), day(3)})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	var got []string
	for _, tr := range res.Trades {
		got = append(got, tr.TradeID)
	}
	want := []string{"d", "c", "b"} // Jan 3, Jan 2, Jan 1
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trade order = %v, want %v (created_at descending)", got, want)
	}

	// The equity curve stays chronological regardless of the output order.
	if res.EquityCurveData[0].Date != "01/01/2024" {
		t.Errorf("equity curve starts at %q, want 01/01/2024", res.EquityCurveData[0].Date)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	trades := []domain.TradeRecord{
		{
			Direction:  domain.DirectionLong,
			EntryPrice: dec("100"), ExitPrice: dec("110"), StopLossPrice: dec("95"),
			PositionSize: dec("1"), PL: dec("10"),
			Setup:     "breakout",
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Direction:  domain.DirectionShort,
			EntryPrice: dec("200"), ExitPrice: dec("210"), StopLossPrice: dec("205"),
			PositionSize: dec("1"), PL: dec("-10"),
			CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	eng := NewEngine(Options{})

	first, err := eng.Analyze(trades)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := eng.Analyze(trades)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("two runs over the same input produced different payloads")
	}
}

func TestAnalyze_DoesNotMutateInput(t *testing.T) {
	trades := []domain.TradeRecord{
		{TradeID: "x", PL: dec("5"), CreatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{TradeID: "y", PL: dec("-5"), CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	eng := NewEngine(Options{})

	if _, err := eng.Analyze(trades); err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if trades[0].TradeID != "x" || trades[1].TradeID != "y" {
		t.Error("input slice was reordered by the engine")
	}
}

func TestAnalyze_MaxTrades(t *testing.T) {
	eng := NewEngine(Options{MaxTrades: 2})
	trades := make([]domain.TradeRecord, 3)

	_, err := eng.Analyze(trades)
	if !errors.Is(err, ErrTooManyTrades) {
		t.Fatalf("err = %v, want ErrTooManyTrades", err)
	}

	// Negative disables the cap entirely.
	eng = NewEngine(Options{MaxTrades: -1})
	if _, err := eng.Analyze(trades); err != nil {
		t.Fatalf("uncapped engine rejected input: %v", err)
	}
}

func TestScore_ZeroTradeCount(t *testing.T) {
	if got := Score(domain.AggregateStats{}); got != (domain.VantageScore{}) {
		t.Errorf("Score on zero trade_count = %+v, want zero struct", got)
	}
}
