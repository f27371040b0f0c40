package storage

import (
	"context"
	"time"

	"vantage-journal/internal/domain"
)

// TradeStore provides access to journaled trades.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if (user_id, trade_id) exists.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetByID retrieves one of a user's trades by ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, userID, tradeID string) (*domain.TradeRecord, error)

	// GetByUser retrieves all trades for a user, ordered by created_at ASC,
	// ties broken by trade_id ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.TradeRecord, error)

	// GetByUserTimeRange retrieves a user's trades with created_at within
	// [start, end] (inclusive), same ordering as GetByUser.
	GetByUserTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.TradeRecord, error)
}

// StatsSnapshotStore provides access to the append-only history of
// analytics runs.
type StatsSnapshotStore interface {
	// Insert records one analytics run. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.StatsSnapshot) error

	// GetByUser retrieves all snapshots for a user, ordered by computed_at ASC.
	GetByUser(ctx context.Context, userID string) ([]*domain.StatsSnapshot, error)

	// GetLatest retrieves the most recent snapshot for a user. Returns
	// ErrNotFound if the user has none.
	GetLatest(ctx context.Context, userID string) (*domain.StatsSnapshot, error)
}
