package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores submission keys that have already been accepted by
// the authoritative store, so a retried submission after a lost acknowledgment
// does not create a duplicate authoritative record.
type IdempotencyStore interface {
	// MarkProcessed marks a submission key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a submission key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for submission deduplication.
// Deduplication itself is switched off by wiring no store at all.
type IdempotencyConfig struct {
	// TTL is the time-to-live for processed submission keys.
	// After this duration the same key would be accepted again, so it should
	// comfortably exceed the longest plausible offline period.
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default deduplication configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL: 7 * 24 * time.Hour,
	}
}
