package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	trade_id, user_id, symbol, direction,
	entry_price, exit_price, stop_loss_price, take_profit_price,
	position_size, lowest_price_during_trade, highest_price_during_trade,
	p_l, entry_timestamp, exit_timestamp, created_at, setup, mistakes
`

const insertTradeQuery = `
	INSERT INTO trades (` + tradeColumns + `)
	VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8,
		$9, $10, $11,
		$12, $13, $14, $15, $16, $17
	)
`

// Insert adds a new trade. Returns ErrDuplicateKey if (user_id, trade_id) exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t.TradeID == "" || t.UserID == "" {
		return fmt.Errorf("%w: trade_id and user_id are required", storage.ErrInvalidInput)
	}

	_, err := s.pool.Exec(ctx, insertTradeQuery, insertTradeArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t.TradeID == "" || t.UserID == "" {
			return fmt.Errorf("%w: trade_id and user_id are required", storage.ErrInvalidInput)
		}
		_, err := tx.Exec(ctx, insertTradeQuery, insertTradeArgs(t)...)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves one of a user's trades by ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(ctx context.Context, userID, tradeID string) (*domain.TradeRecord, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE user_id = $1 AND trade_id = $2`

	row := s.pool.QueryRow(ctx, query, userID, tradeID)
	t, err := scanTrade(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetByUser retrieves all trades for a user, ordered by created_at ASC.
func (s *TradeStore) GetByUser(ctx context.Context, userID string) ([]*domain.TradeRecord, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE user_id = $1
		ORDER BY created_at ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get trades by user: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByUserTimeRange retrieves a user's trades created within [start, end] (inclusive).
func (s *TradeStore) GetByUserTimeRange(ctx context.Context, userID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC, trade_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trades by user time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// insertTradeArgs flattens a trade into the insert parameter list. Zero
// timestamps persist as NULL; zero mistakes persist as an empty array.
func insertTradeArgs(t *domain.TradeRecord) []any {
	var entryTS, exitTS *time.Time
	if !t.EntryTimestamp.IsZero() {
		entryTS = &t.EntryTimestamp
	}
	if !t.ExitTimestamp.IsZero() {
		exitTS = &t.ExitTimestamp
	}
	mistakes := t.Mistakes
	if mistakes == nil {
		mistakes = []string{}
	}

	return []any{
		t.TradeID, t.UserID, t.Symbol, string(t.Direction),
		t.EntryPrice, t.ExitPrice, t.StopLossPrice, t.TakeProfitPrice,
		t.PositionSize, t.LowestPriceDuringTrade, t.HighestPriceDuringTrade,
		t.PL, entryTS, exitTS, t.CreatedAt, t.Setup, mistakes,
	}
}

// scanTrade scans a single row into a TradeRecord.
func scanTrade(row pgx.Row) (*domain.TradeRecord, error) {
	var t domain.TradeRecord
	var direction string
	var entryTS, exitTS *time.Time

	err := row.Scan(
		&t.TradeID, &t.UserID, &t.Symbol, &direction,
		&t.EntryPrice, &t.ExitPrice, &t.StopLossPrice, &t.TakeProfitPrice,
		&t.PositionSize, &t.LowestPriceDuringTrade, &t.HighestPriceDuringTrade,
		&t.PL, &entryTS, &exitTS, &t.CreatedAt, &t.Setup, &t.Mistakes,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = domain.Direction(direction)
	if entryTS != nil {
		t.EntryTimestamp = *entryTS
	}
	if exitTS != nil {
		t.ExitTimestamp = *exitTS
	}

	return &t, nil
}

// scanTrades scans multiple rows into a slice of TradeRecord.
func scanTrades(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
