package offline

import (
	"context"

	"github.com/google/uuid"
)

// Queue is the local durable queue port. Implementations must survive
// process restarts, and every operation must be a single atomic
// transaction against the storage engine. When the underlying storage
// cannot be opened or written, operations return
// shared.ErrStorageUnavailable (wrapped), and callers surface that instead
// of silently dropping the sale.
type Queue interface {
	// Append persists a new pending record with Synchronized=false and
	// returns its local ID. Either the whole record is stored or none of
	// it; a partial write is not observable.
	Append(ctx context.Context, record *PendingSale) (uuid.UUID, error)

	// ListUnsynchronized returns all records with Synchronized=false,
	// filtered by business when businessID is not uuid.Nil. Ordering is
	// by storage time and is only guaranteed stable for one iteration.
	ListUnsynchronized(ctx context.Context, businessID uuid.UUID) ([]PendingSale, error)

	// MarkSynchronized flips a record to synchronized. Idempotent:
	// marking an already-synchronized or unknown record is a no-op.
	MarkSynchronized(ctx context.Context, localID uuid.UUID) error

	// PurgeSynchronized removes every synchronized record and returns
	// how many were removed. Purge is immediate: settled records carry
	// no retention window (the authoritative store is the audit trail).
	PurgeSynchronized(ctx context.Context) (int64, error)

	// CountUnsynchronized returns the number of records still waiting
	// for delivery, optionally filtered by business
	CountUnsynchronized(ctx context.Context, businessID uuid.UUID) (int64, error)
}
