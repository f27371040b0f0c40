package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/journal"
	"vantage-journal/internal/storage"
)

// Generator produces reports from stored journal data.
type Generator struct {
	tradeStore    storage.TradeStore
	snapshotStore storage.StatsSnapshotStore // optional
	engine        *journal.Engine
	now           func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. The snapshot store may be
// nil; the report then omits the history section.
func NewGenerator(tradeStore storage.TradeStore, snapshotStore storage.StatsSnapshotStore, engine *journal.Engine) *Generator {
	return &Generator{
		tradeStore:    tradeStore,
		snapshotStore: snapshotStore,
		engine:        engine,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate computes the full report for one user's journal.
func (g *Generator) Generate(ctx context.Context, userID string) (*Report, error) {
	return g.GenerateRange(ctx, userID, time.Time{}, time.Time{})
}

// GenerateRange is Generate restricted to trades created within [since, until].
// A zero since means from the first trade; a zero until means up to now. The
// snapshot history section is not windowed.
func (g *Generator) GenerateRange(ctx context.Context, userID string, since, until time.Time) (*Report, error) {
	var stored []*domain.TradeRecord
	var err error
	if since.IsZero() && until.IsZero() {
		stored, err = g.tradeStore.GetByUser(ctx, userID)
	} else {
		if until.IsZero() {
			until = g.now()
		}
		stored, err = g.tradeStore.GetByUserTimeRange(ctx, userID, since, until)
	}
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}

	trades := make([]domain.TradeRecord, len(stored))
	for i, t := range stored {
		trades[i] = *t
	}

	result, err := g.engine.Analyze(trades)
	if err != nil {
		return nil, fmt.Errorf("analyze trades: %w", err)
	}

	report := &Report{
		GeneratedAt:    g.now(),
		UserID:         userID,
		Stats:          result.Stats,
		Score:          journal.Score(result.Stats),
		SetupBreakdown: result.SetupChartData,
		RMultiples:     result.RMultipleData,
		DailyPnL:       result.Stats.NetDailyPnLChart,
	}

	if g.snapshotStore != nil {
		history, err := g.snapshotStore.GetByUser(ctx, userID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("load snapshot history: %w", err)
		}
		report.History = history
	}

	return report, nil
}
