package idhash

import (
	"testing"
	"time"
)

func TestComputeTradeID_Deterministic(t *testing.T) {
	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	created := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	first := ComputeTradeID("user-1", "NQ", entry, created)
	for i := 0; i < 10; i++ {
		if got := ComputeTradeID("user-1", "NQ", entry, created); got != first {
			t.Fatalf("ComputeTradeID() not deterministic: %s != %s", got, first)
		}
	}

	if first == "" {
		t.Fatal("ComputeTradeID() returned empty string")
	}
}

func TestComputeTradeID_DistinguishesInputs(t *testing.T) {
	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	created := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	base := ComputeTradeID("user-1", "NQ", entry, created)

	variants := []string{
		ComputeTradeID("user-2", "NQ", entry, created),
		ComputeTradeID("user-1", "ES", entry, created),
		ComputeTradeID("user-1", "NQ", entry.Add(time.Minute), created),
		ComputeTradeID("user-1", "NQ", entry, created.Add(time.Millisecond)),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID %s", i, base)
		}
	}
}

func TestComputeTradeID_MissingEntryTimestamp(t *testing.T) {
	created := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	withEntry := ComputeTradeID("user-1", "NQ", created, created)
	withoutEntry := ComputeTradeID("user-1", "NQ", time.Time{}, created)

	if withEntry == withoutEntry {
		t.Error("zero entry timestamp should produce a different ID")
	}
	if ComputeTradeID("user-1", "NQ", time.Time{}, created) != withoutEntry {
		t.Error("zero entry timestamp should still be deterministic")
	}
}

func TestComputeTradeID_TimezoneInsensitive(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	entry := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	created := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)

	utc := ComputeTradeID("user-1", "NQ", entry, created)
	shifted := ComputeTradeID("user-1", "NQ", entry.In(loc), created.In(loc))
	if utc != shifted {
		t.Errorf("same instant in different zones produced different IDs: %s != %s", utc, shifted)
	}
}
