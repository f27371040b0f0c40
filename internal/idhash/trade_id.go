// Package idhash derives deterministic record identifiers, so re-importing
// the same journal never creates duplicate rows.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/mr-tron/base58"
)

// ComputeTradeID computes a deterministic trade_id.
// Formula: base58(SHA256(user_id|symbol|entry_timestamp|created_at)).
// Timestamps contribute their UTC unix milliseconds; a missing entry
// timestamp contributes zero.
func ComputeTradeID(userID, symbol string, entryTimestamp, createdAt time.Time) string {
	var entryMs int64
	if !entryTimestamp.IsZero() {
		entryMs = entryTimestamp.UTC().UnixMilli()
	}

	data := fmt.Sprintf("%s|%s|%d|%d",
		userID,
		symbol,
		entryMs,
		createdAt.UTC().UnixMilli(),
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
