package sale

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/domain/shared/valueobject"
)

// LineItem represents a single product line on a sale.
// Immutable once attached to a Sale.
type LineItem struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductName string
	Quantity    int64
	UnitPrice   valueobject.Money
}

// NewLineItem creates a validated line item
func NewLineItem(productName string, quantity int64, unitPrice valueobject.Money) (LineItem, error) {
	if strings.TrimSpace(productName) == "" {
		return LineItem{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return LineItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return LineItem{
		ID:          uuid.New(),
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}, nil
}

// Amount returns quantity * unit price for this line
func (i LineItem) Amount() valueobject.Money {
	return i.UnitPrice.MultiplyByInt(i.Quantity)
}

// Sale is the aggregate for a committed point-of-sale transaction.
// Sales are immutable once created: there is no update path, and the
// monetary fields are frozen at construction. The VATRate field is a
// snapshot taken at computation time; it is never re-derived, so a later
// change to the business's rate does not alter stored sales.
type Sale struct {
	shared.BaseEntity
	BusinessID    uuid.UUID
	RecordedBy    uuid.UUID
	Items         []LineItem
	PaymentMethod string
	Subtotal      valueobject.Money
	VATAmount     valueobject.Money
	Total         valueobject.Money
	VATRate       decimal.Decimal
	// SubmissionKey is a client-generated identifier that stays stable
	// across resubmissions of the same capture, letting the authoritative
	// store reject duplicates after a lost acknowledgment.
	SubmissionKey uuid.UUID
}

// NewSale constructs a sale, computing and freezing its monetary fields.
// The subtotal is the sum of line amounts rounded to 2 decimals; VAT and
// total follow the ComputeTax contract.
func NewSale(businessID, recordedBy uuid.UUID, items []LineItem, paymentMethod string, rate VATRate) (*Sale, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Sale must contain at least one item")
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount().Amount())
	}

	breakdown, err := ComputeTax(subtotal, rate)
	if err != nil {
		return nil, err
	}

	s := &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		BusinessID:    businessID,
		RecordedBy:    recordedBy,
		Items:         make([]LineItem, len(items)),
		PaymentMethod: paymentMethod,
		Subtotal:      breakdown.Subtotal,
		VATAmount:     breakdown.VATAmount,
		Total:         breakdown.Total,
		VATRate:       rate.Value(),
		SubmissionKey: uuid.New(),
	}
	copy(s.Items, items)
	for idx := range s.Items {
		s.Items[idx].SaleID = s.ID
	}

	return s, nil
}
