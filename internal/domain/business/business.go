package business

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
)

// ErrInactive is returned by rate lookups for a deactivated business so
// the capture path rejects new sales against it.
var ErrInactive = shared.NewDomainError("INVALID_BUSINESS", "Business is inactive")

// Business is an entry in the business directory. The directory owns the
// current VAT rate for a business; the capture path snapshots the rate at
// commit time, so editing it here never alters previously recorded sales.
type Business struct {
	shared.BaseEntity
	Name    string
	VATRate decimal.Decimal
	Active  bool
}

// NewBusiness creates a business with a validated VAT rate
func NewBusiness(name string, vatRate decimal.Decimal) (*Business, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Business name cannot be empty")
	}
	if _, err := sale.NewVATRate(vatRate); err != nil {
		return nil, err
	}

	return &Business{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		VATRate:    vatRate,
		Active:     true,
	}, nil
}

// UpdateVATRate changes the directory rate. Existing sales keep their
// snapshot; only future captures pick up the new rate.
func (b *Business) UpdateVATRate(vatRate decimal.Decimal) error {
	if _, err := sale.NewVATRate(vatRate); err != nil {
		return err
	}
	b.VATRate = vatRate
	b.Touch()
	return nil
}

// Deactivate marks the business inactive; inactive businesses reject new captures
func (b *Business) Deactivate() {
	b.Active = false
	b.Touch()
}
