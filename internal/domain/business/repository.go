package business

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Directory is the business directory port. The sale capture core only
// reads from it; administration is handled by its own service.
type Directory interface {
	// FindByID loads a business
	FindByID(ctx context.Context, id uuid.UUID) (*Business, error)

	// VATRate returns the current rate for a business
	VATRate(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error)
}

// Repository extends the read-only directory with the administration
// operations used by the directory admin endpoints
type Repository interface {
	Directory

	// Save persists a new or updated business
	Save(ctx context.Context, b *Business) error

	// FindAll lists all businesses
	FindAll(ctx context.Context) ([]Business, error)
}
