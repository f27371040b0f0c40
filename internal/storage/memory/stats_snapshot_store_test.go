package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"vantage-journal/internal/domain"
	"vantage-journal/internal/storage"
)

func snapshot(userID, snapshotID string, computedAt time.Time) *domain.StatsSnapshot {
	return &domain.StatsSnapshot{
		SnapshotID: snapshotID,
		UserID:     userID,
		ComputedAt: computedAt,
		TradeCount: 5,
		TotalPL:    150,
	}
}

func TestStatsSnapshotStore_InsertAndGetByUser(t *testing.T) {
	ctx := context.Background()
	store := NewStatsSnapshotStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	// Insert newest first; reads come back oldest first.
	if err := store.Insert(ctx, snapshot("u1", "s2", base.Add(time.Hour))); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, snapshot("u1", "s1", base)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, snapshot("u2", "s3", base)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(got) != 2 || got[0].SnapshotID != "s1" || got[1].SnapshotID != "s2" {
		t.Errorf("got %d snapshots, want s1 then s2", len(got))
	}
}

func TestStatsSnapshotStore_DuplicateAndInvalid(t *testing.T) {
	ctx := context.Background()
	store := NewStatsSnapshotStore()
	now := time.Now()

	if err := store.Insert(ctx, snapshot("u1", "s1", now)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, snapshot("u1", "s1", now)); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("duplicate snapshot_id: err = %v, want ErrDuplicateKey", err)
	}
	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil snapshot: err = %v, want ErrInvalidInput", err)
	}
	if err := store.Insert(ctx, snapshot("", "s2", now)); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("missing user_id: err = %v, want ErrInvalidInput", err)
	}
}

func TestStatsSnapshotStore_GetLatest(t *testing.T) {
	ctx := context.Background()
	store := NewStatsSnapshotStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if _, err := store.GetLatest(ctx, "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("empty store: err = %v, want ErrNotFound", err)
	}

	for i, id := range []string{"s1", "s2", "s3"} {
		if err := store.Insert(ctx, snapshot("u1", id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetLatest(ctx, "u1")
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if got.SnapshotID != "s3" {
		t.Errorf("latest = %q, want s3", got.SnapshotID)
	}
}
