package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared/valueobject"
)

// SaleModel is the persistence model for a committed sale in the
// authoritative store. Rows are append-only: sales are immutable once
// created.
type SaleModel struct {
	BaseModel
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_business_created,priority:1"`
	RecordedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	Items         []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
	PaymentMethod string          `gorm:"type:varchar(100);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATRate       decimal.Decimal `gorm:"type:decimal(7,6);not null"`
	SubmissionKey uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sale.Sale {
	s := &sale.Sale{
		BaseEntity:    m.BaseModel.ToDomain(),
		BusinessID:    m.BusinessID,
		RecordedBy:    m.RecordedBy,
		PaymentMethod: m.PaymentMethod,
		Subtotal:      valueobject.NewMoney(m.Subtotal),
		VATAmount:     valueobject.NewMoney(m.VATAmount),
		Total:         valueobject.NewMoney(m.Total),
		VATRate:       m.VATRate,
		SubmissionKey: m.SubmissionKey,
		Items:         make([]sale.LineItem, len(m.Items)),
	}
	for i, item := range m.Items {
		s.Items[i] = item.ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *sale.Sale) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.BusinessID = s.BusinessID
	m.RecordedBy = s.RecordedBy
	m.PaymentMethod = s.PaymentMethod
	m.Subtotal = s.Subtotal.Amount()
	m.VATAmount = s.VATAmount.Amount()
	m.Total = s.Total.Amount()
	m.VATRate = s.VATRate
	m.SubmissionKey = s.SubmissionKey
	m.Items = make([]SaleItemModel, len(s.Items))
	for i, item := range s.Items {
		m.Items[i].FromDomain(item)
	}
}

// SaleItemModel is the persistence model for a sale line item
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *SaleItemModel) ToDomain() sale.LineItem {
	return sale.LineItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   valueobject.NewMoney(m.UnitPrice),
	}
}

// FromDomain populates the persistence model from a domain LineItem
func (m *SaleItemModel) FromDomain(item sale.LineItem) {
	m.ID = item.ID
	m.SaleID = item.SaleID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.UnitPrice = item.UnitPrice.Amount()
}
