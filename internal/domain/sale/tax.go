package sale

import (
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/domain/shared/valueobject"
)

// DefaultVATRate is the rate used when a business has not configured one.
// It is a display/bootstrap default only; the capture path always resolves
// the rate from the business directory.
var DefaultVATRate = decimal.NewFromFloat(0.18)

// VATRate is a fractional consumption-tax rate in [0, 1]
type VATRate struct {
	value decimal.Decimal
}

// NewVATRate creates a VATRate, rejecting values outside [0, 1]
func NewVATRate(value decimal.Decimal) (VATRate, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(1)) {
		return VATRate{}, shared.NewDomainError("INVALID_INPUT", "VAT rate must be between 0 and 1")
	}
	return VATRate{value: value}, nil
}

// NewVATRateFromFloat creates a VATRate from a float64
func NewVATRateFromFloat(value float64) (VATRate, error) {
	return NewVATRate(decimal.NewFromFloat(value))
}

// Value returns the rate as a decimal
func (r VATRate) Value() decimal.Decimal {
	return r.value
}

// String returns the rate as a decimal string
func (r VATRate) String() string {
	return r.value.String()
}

// TaxBreakdown holds the result of a tax computation. All three fields are
// rounded to 2 decimal places; Total = Subtotal + VATAmount by construction
// (rounding is applied to the VAT amount only, then added).
type TaxBreakdown struct {
	Subtotal  valueobject.Money
	VATAmount valueobject.Money
	Total     valueobject.Money
}

// ComputeTax calculates VAT and total for a pre-tax amount. Pure: no state,
// no I/O. A negative subtotal is a caller contract violation.
func ComputeTax(subtotal decimal.Decimal, rate VATRate) (TaxBreakdown, error) {
	if subtotal.IsNegative() {
		return TaxBreakdown{}, shared.NewDomainError("INVALID_INPUT", "Subtotal cannot be negative")
	}

	roundedSubtotal := valueobject.NewMoney(subtotal).Round2()
	vatAmount := valueobject.NewMoney(subtotal.Mul(rate.value)).Round2()

	return TaxBreakdown{
		Subtotal:  roundedSubtotal,
		VATAmount: vatAmount,
		Total:     roundedSubtotal.Add(vatAmount),
	}, nil
}
