package offline

import (
	"time"

	"github.com/google/uuid"

	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
)

// PendingSale is a sale captured while the authoritative backend was
// unreachable, held in the local durable queue until a sync pass delivers
// it. The queue is append-only: records are never edited; the sync
// coordinator flips Synchronized and the cleanup step removes settled
// records.
type PendingSale struct {
	// LocalID identifies the record within the local queue only. It is
	// never sent to the authoritative store and is discarded on sync.
	LocalID uuid.UUID

	Sale sale.Sale

	Synchronized bool

	// CapturedAt is the client-clock capture time; the authoritative
	// server clock was unavailable when this record was created.
	CapturedAt time.Time

	// StoredAt orders records for retention cleanup
	StoredAt time.Time

	// SyncedAt is set when the record is marked synchronized
	SyncedAt *time.Time
}

// NewPendingSale wraps a computed sale for the local queue
func NewPendingSale(s *sale.Sale) (*PendingSale, error) {
	if s == nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Pending record requires a sale")
	}

	now := time.Now()
	return &PendingSale{
		LocalID:      uuid.New(),
		Sale:         *s,
		Synchronized: false,
		CapturedAt:   now,
		StoredAt:     now,
	}, nil
}

// MarkSynchronized flips the record to synchronized. Idempotent: marking
// an already-synchronized record changes nothing.
func (p *PendingSale) MarkSynchronized() {
	if p.Synchronized {
		return
	}
	now := time.Now()
	p.Synchronized = true
	p.SyncedAt = &now
}
