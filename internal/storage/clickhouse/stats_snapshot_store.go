package clickhouse

import (
	"context"
	"fmt"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/storage"
)

// StatsSnapshotStore implements storage.StatsSnapshotStore using ClickHouse.
// Snapshots are append-only and read back in time order, which maps directly
// onto a MergeTree keyed by (user_id, computed_at).
type StatsSnapshotStore struct {
	conn *Conn
}

// NewStatsSnapshotStore creates a new StatsSnapshotStore.
func NewStatsSnapshotStore(conn *Conn) *StatsSnapshotStore {
	return &StatsSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.StatsSnapshotStore = (*StatsSnapshotStore)(nil)

const snapshotColumns = `
	snapshot_id, user_id, computed_at,
	trade_count, total_pl, win_rate, profit_factor,
	max_drawdown_pct, sharpe_ratio, vantage_score
`

// Insert records one analytics run. Returns ErrDuplicateKey if snapshot_id exists.
func (s *StatsSnapshotStore) Insert(ctx context.Context, snap *domain.StatsSnapshot) error {
	if snap.SnapshotID == "" || snap.UserID == "" {
		return fmt.Errorf("%w: snapshot_id and user_id are required", storage.ErrInvalidInput)
	}

	// MergeTree does not enforce uniqueness at insert time; check first.
	exists, err := s.exists(ctx, snap.SnapshotID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO stats_snapshots (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		snap.SnapshotID, snap.UserID, snap.ComputedAt,
		uint32(snap.TradeCount), snap.TotalPL, snap.WinRate, snap.ProfitFactor,
		snap.MaxDrawdownPct, snap.SharpeRatio, snap.VantageScore,
	)
	if err != nil {
		return fmt.Errorf("insert stats snapshot: %w", err)
	}
	return nil
}

// GetByUser retrieves all snapshots for a user, ordered by computed_at ASC.
func (s *StatsSnapshotStore) GetByUser(ctx context.Context, userID string) ([]*domain.StatsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM stats_snapshots
		WHERE user_id = ?
		ORDER BY computed_at ASC, snapshot_id ASC
	`

	rows, err := s.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by user: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.StatsSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return snaps, nil
}

// GetLatest retrieves the most recent snapshot for a user.
func (s *StatsSnapshotStore) GetLatest(ctx context.Context, userID string) (*domain.StatsSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM stats_snapshots
		WHERE user_id = ?
		ORDER BY computed_at DESC, snapshot_id DESC
		LIMIT 1
	`

	row := s.conn.QueryRow(ctx, query, userID)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// exists checks if a snapshot with the given ID exists.
func (s *StatsSnapshotStore) exists(ctx context.Context, snapshotID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM stats_snapshots WHERE snapshot_id = ?`, snapshotID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRow is the common scan surface of driver.Row and driver.Rows.
type chRow interface {
	Scan(dest ...any) error
}

func scanSnapshot(row chRow) (*domain.StatsSnapshot, error) {
	var snap domain.StatsSnapshot
	var tradeCount uint32

	err := row.Scan(
		&snap.SnapshotID, &snap.UserID, &snap.ComputedAt,
		&tradeCount, &snap.TotalPL, &snap.WinRate, &snap.ProfitFactor,
		&snap.MaxDrawdownPct, &snap.SharpeRatio, &snap.VantageScore,
	)
	if err != nil {
		return nil, err
	}

	snap.TradeCount = int(tradeCount)
	return &snap, nil
}
