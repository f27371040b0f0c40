package journal

import (
	"testing"
	"time"

	"vantage-journal/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func timedTrade(id string, minutes int) domain.TradeRecord {
	entry := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return domain.TradeRecord{
		TradeID:        id,
		EntryTimestamp: entry,
		ExitTimestamp:  entry.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(trades []domain.TradeRecord) []string {
	out := make([]string, len(trades))
	for i, t := range trades {
		out[i] = t.TradeID
	}
	return out
}

func TestFilterTrades_ZeroCriteriaPassesThrough(t *testing.T) {
	trades := []domain.TradeRecord{{TradeID: "a"}, {TradeID: "b"}}
	var c FilterCriteria
	if !c.IsZero() {
		t.Fatal("empty criteria should report IsZero")
	}
	got := FilterTrades(trades, c)
	if len(got) != 2 {
		t.Errorf("zero criteria filtered trades: %v", ids(got))
	}
}

func TestFilterTrades_Duration(t *testing.T) {
	trades := []domain.TradeRecord{
		timedTrade("short", 5),
		timedTrade("mid", 30),
		timedTrade("long", 120),
		{TradeID: "untimed"}, // missing timestamps pass duration bounds
	}

	got := FilterTrades(trades, FilterCriteria{MinDuration: fptr(10), MaxDuration: fptr(60)})

	want := []string{"mid", "untimed"}
	if g := ids(got); len(g) != 2 || g[0] != want[0] || g[1] != want[1] {
		t.Errorf("filtered = %v, want %v", g, want)
	}
}

func TestFilterTrades_RR(t *testing.T) {
	// risk 5 points, vpp 1 → rr = p_l/5.
	withRR := func(id, pl string) domain.TradeRecord {
		return domain.TradeRecord{
			TradeID:       id,
			EntryPrice:    dec("100"),
			StopLossPrice: dec("95"),
			PL:            dec(pl),
		}
	}
	trades := []domain.TradeRecord{
		withRR("deep-loss", "-15"), // rr -3
		withRR("small-win", "5"),   // rr 1
		withRR("big-win", "20"),    // rr 4
		{TradeID: "no-stop", PL: dec("50")}, // no measurable risk: passes
	}

	got := FilterTrades(trades, FilterCriteria{MinRR: fptr(0), MaxRR: fptr(2)})

	want := []string{"small-win", "no-stop"}
	if g := ids(got); len(g) != 2 || g[0] != want[0] || g[1] != want[1] {
		t.Errorf("filtered = %v, want %v", g, want)
	}
}

func TestFilterTrades_RRUsesPositionSizeAsValuePerPoint(t *testing.T) {
	// Entry 100, exit 110, stop 95, size 2, p_l 10: the enricher would infer
	// value-per-point 0.5 from |p_l/points| and score rr 2. The filter uses
	// the simplified value-per-point = position size, so rr = 10/(5*2) = 1.
	trade := domain.TradeRecord{
		TradeID:       "sized",
		Direction:     domain.DirectionLong,
		EntryPrice:    dec("100"),
		ExitPrice:     dec("110"),
		StopLossPrice: dec("95"),
		PositionSize:  dec("2"),
		PL:            dec("10"),
	}

	got := FilterTrades([]domain.TradeRecord{trade}, FilterCriteria{MaxRR: fptr(1.5)})
	if len(got) != 1 {
		t.Error("rr = 1.0 under simplified value-per-point, should pass max_rr 1.5")
	}

	got = FilterTrades([]domain.TradeRecord{trade}, FilterCriteria{MinRR: fptr(1.5)})
	if len(got) != 0 {
		t.Error("rr = 1.0 under simplified value-per-point, should fail min_rr 1.5")
	}
}

func TestFilterTrades_RRZeroSizeFallsBackToOne(t *testing.T) {
	// No position size recorded: value-per-point falls back to 1, rr = 20/5.
	trade := domain.TradeRecord{
		TradeID:       "unsized",
		EntryPrice:    dec("100"),
		StopLossPrice: dec("95"),
		PL:            dec("20"),
	}
	got := FilterTrades([]domain.TradeRecord{trade}, FilterCriteria{MinRR: fptr(4)})
	if len(got) != 1 {
		t.Error("rr = 4.0 with unit value-per-point, should pass min_rr 4")
	}
}

func TestFilterTrades_BoundsAreInclusive(t *testing.T) {
	trades := []domain.TradeRecord{timedTrade("exact", 30)}
	got := FilterTrades(trades, FilterCriteria{MinDuration: fptr(30), MaxDuration: fptr(30)})
	if len(got) != 1 {
		t.Error("a trade exactly on both bounds should pass")
	}
}
