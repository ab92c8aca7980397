package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the authoritative sale store port: the durable, shared,
// multi-tenant ledger of committed sales. The store serializes concurrent
// writes itself; this core only appends.
type Repository interface {
	// Save persists a committed sale with its line items.
	// Saving a sale whose submission key is already present returns
	// shared.ErrAlreadyExists.
	Save(ctx context.Context, s *Sale) error

	// FindByID loads a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByBusinessAndDateRange lists committed sales for a business
	// within [from, to], ordered by creation time. Consumed by reporting.
	FindByBusinessAndDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]Sale, error)

	// ExistsBySubmissionKey reports whether a sale with the given
	// submission key has already been committed
	ExistsBySubmissionKey(ctx context.Context, key uuid.UUID) (bool, error)
}
