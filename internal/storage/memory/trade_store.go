package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/storage"
)

// TradeStore is an in-memory implementation of storage.TradeStore, used in
// tests and for running the server without a database.
type TradeStore struct {
	mu   sync.RWMutex
	data map[tradeKey]*domain.TradeRecord
}

type tradeKey struct {
	userID  string
	tradeID string
}

// NewTradeStore creates a new in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{
		data: make(map[tradeKey]*domain.TradeRecord),
	}
}

var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds a new trade. Returns ErrDuplicateKey if (user_id, trade_id) exists.
func (s *TradeStore) Insert(_ context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TradeID == "" || t.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := tradeKey{userID: t.UserID, tradeID: t.TradeID}
	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	clone := t.Clone()
	s.data[key] = &clone
	return nil
}

// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
func (s *TradeStore) InsertBulk(_ context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate and detect duplicates, existing and intra-batch.
	batchKeys := make(map[tradeKey]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.TradeID == "" || t.UserID == "" {
			return storage.ErrInvalidInput
		}
		key := tradeKey{userID: t.UserID, tradeID: t.TradeID}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all.
	for _, t := range trades {
		clone := t.Clone()
		s.data[tradeKey{userID: t.UserID, tradeID: t.TradeID}] = &clone
	}

	return nil
}

// GetByID retrieves one of a user's trades by ID. Returns ErrNotFound if not exists.
func (s *TradeStore) GetByID(_ context.Context, userID, tradeID string) (*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tradeKey{userID: userID, tradeID: tradeID}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	clone := t.Clone()
	return &clone, nil
}

// GetByUser retrieves all trades for a user, ordered by created_at ASC,
// ties broken by trade_id ASC.
func (s *TradeStore) GetByUser(_ context.Context, userID string) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for key, t := range s.data {
		if key.userID == userID {
			clone := t.Clone()
			result = append(result, &clone)
		}
	}

	sortTrades(result)
	return result, nil
}

// GetByUserTimeRange retrieves a user's trades created within [start, end] (inclusive).
func (s *TradeStore) GetByUserTimeRange(_ context.Context, userID string, start, end time.Time) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TradeRecord
	for key, t := range s.data {
		if key.userID != userID {
			continue
		}
		if t.CreatedAt.Before(start) || t.CreatedAt.After(end) {
			continue
		}
		clone := t.Clone()
		result = append(result, &clone)
	}

	sortTrades(result)
	return result, nil
}

func sortTrades(trades []*domain.TradeRecord) {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].CreatedAt.Equal(trades[j].CreatedAt) {
			return trades[i].TradeID < trades[j].TradeID
		}
		return trades[i].CreatedAt.Before(trades[j].CreatedAt)
	})
}
