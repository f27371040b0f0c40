package memory

import (
	"context"
	"sort"
	"sync"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/storage"
)

// StatsSnapshotStore is an in-memory implementation of storage.StatsSnapshotStore.
type StatsSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.StatsSnapshot // keyed by snapshot_id
}

// NewStatsSnapshotStore creates a new in-memory snapshot store.
func NewStatsSnapshotStore() *StatsSnapshotStore {
	return &StatsSnapshotStore{
		data: make(map[string]*domain.StatsSnapshot),
	}
}

var _ storage.StatsSnapshotStore = (*StatsSnapshotStore)(nil)

// Insert records one analytics run. Returns ErrDuplicateKey if snapshot_id exists.
func (s *StatsSnapshotStore) Insert(_ context.Context, snap *domain.StatsSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.UserID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	clone := *snap
	s.data[snap.SnapshotID] = &clone
	return nil
}

// GetByUser retrieves all snapshots for a user, ordered by computed_at ASC.
func (s *StatsSnapshotStore) GetByUser(_ context.Context, userID string) ([]*domain.StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.StatsSnapshot
	for _, snap := range s.data {
		if snap.UserID == userID {
			clone := *snap
			result = append(result, &clone)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ComputedAt.Equal(result[j].ComputedAt) {
			return result[i].SnapshotID < result[j].SnapshotID
		}
		return result[i].ComputedAt.Before(result[j].ComputedAt)
	})

	return result, nil
}

// GetLatest retrieves the most recent snapshot for a user.
func (s *StatsSnapshotStore) GetLatest(ctx context.Context, userID string) (*domain.StatsSnapshot, error) {
	snaps, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, storage.ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}
