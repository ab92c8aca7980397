package sale

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/sale"
)

// RecordSaleRequest represents a request to capture a sale
type RecordSaleRequest struct {
	BusinessID    uuid.UUID             `json:"business_id" binding:"required"`
	RecordedBy    uuid.UUID             `json:"recorded_by"`
	Items         []RecordSaleItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required,min=1,max=50"`
}

// RecordSaleItemInput represents one product line in a capture request
type RecordSaleItemInput struct {
	ProductName string          `json:"product_name" binding:"required,min=1,max=200"`
	Quantity    int64           `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"gte=0"`
}

// SaleItemResponse represents a line item in responses
type SaleItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Amount      string    `json:"amount"`
}

// SaleResponse represents a computed sale in responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	BusinessID    uuid.UUID          `json:"business_id"`
	RecordedBy    uuid.UUID          `json:"recorded_by"`
	Items         []SaleItemResponse `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      string             `json:"subtotal"`
	VATAmount     string             `json:"vat_amount"`
	Total         string             `json:"total"`
	VATRate       string             `json:"vat_rate"`
	CreatedAt     time.Time          `json:"created_at"`
}

// RecordSaleResponse tells the caller which path the capture took. A
// committed sale carries its authoritative record; a queued sale carries
// the local queue identifier instead.
type RecordSaleResponse struct {
	Queued  bool          `json:"queued"`
	Sale    *SaleResponse `json:"sale,omitempty"`
	LocalID *uuid.UUID    `json:"local_id,omitempty"`
}

// ListSalesFilter narrows a sales query to a business and date range.
// BusinessID binds as text because query binding cannot populate a
// uuid.UUID; ListSales parses it.
type ListSalesFilter struct {
	BusinessID string    `form:"business_id" binding:"required,uuid"`
	StartDate  time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    time.Time `form:"end_date" time_format:"2006-01-02"`
}

// ToSaleResponse converts a sale aggregate to its response representation
func ToSaleResponse(s *sale.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Amount:      item.Amount().String(),
		}
	}
	return SaleResponse{
		ID:            s.ID,
		BusinessID:    s.BusinessID,
		RecordedBy:    s.RecordedBy,
		Items:         items,
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal.String(),
		VATAmount:     s.VATAmount.String(),
		Total:         s.Total.String(),
		VATRate:       s.VATRate.String(),
		CreatedAt:     s.CreatedAt,
	}
}
