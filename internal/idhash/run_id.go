// Package idhash derives deterministic identifiers from domain fields
// using SHA256, so re-ingesting the same data or re-running the same
// analysis produces the same keys.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"walkforward-lab/internal/domain"
)

// ComputeRunID computes a deterministic run_id.
// Formula: SHA256(instrument_id|strategy_type|train|test|step|created_at_ms)
// Returns hex-encoded hash (64 characters).
func ComputeRunID(instrumentID string, cfg domain.WalkForwardConfig, createdAt int64) string {
	data := fmt.Sprintf("%s|%s|%d|%d|%d|%d",
		instrumentID,
		cfg.StrategyType,
		cfg.TrainLength,
		cfg.TestLength,
		cfg.StepLength,
		createdAt,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeInstrumentID computes a deterministic instrument_id.
// Formula: SHA256(symbol|exchange)
// Returns hex-encoded hash (64 characters).
func ComputeInstrumentID(symbol, exchange string) string {
	data := fmt.Sprintf("%s|%s", symbol, exchange)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
