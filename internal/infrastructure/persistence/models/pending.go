package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/offline"
	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/domain/shared/valueobject"
)

// PendingSaleModel is the persistence model for the local durable queue.
// Line items are serialized into a JSON column so each append is a single
// atomic row insert against the sqlite file.
type PendingSaleModel struct {
	LocalID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null"`
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_pending_business_synced,priority:1"`
	RecordedBy    uuid.UUID       `gorm:"type:uuid;not null"`
	ItemsJSON     string          `gorm:"type:text;not null"`
	PaymentMethod string          `gorm:"type:varchar(100);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	VATRate       decimal.Decimal `gorm:"type:decimal(7,6);not null"`
	SubmissionKey uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Synchronized  bool            `gorm:"not null;default:false;index:idx_pending_business_synced,priority:2"`
	CapturedAt    time.Time       `gorm:"not null"`
	StoredAt      time.Time       `gorm:"not null;index"`
	SyncedAt      *time.Time
}

// TableName returns the table name for GORM
func (PendingSaleModel) TableName() string {
	return "pending_sales"
}

// pendingItem is the JSON shape of one serialized line item
type pendingItem struct {
	ID          uuid.UUID `json:"id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
}

// ToDomain converts the persistence model to a domain PendingSale
func (m *PendingSaleModel) ToDomain() (*offline.PendingSale, error) {
	var rawItems []pendingItem
	if err := json.Unmarshal([]byte(m.ItemsJSON), &rawItems); err != nil {
		return nil, fmt.Errorf("corrupt pending sale %s: %w", m.LocalID, err)
	}

	items := make([]sale.LineItem, len(rawItems))
	for i, raw := range rawItems {
		price, err := valueobject.NewMoneyFromString(raw.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("corrupt pending sale %s: %w", m.LocalID, err)
		}
		items[i] = sale.LineItem{
			ID:          raw.ID,
			SaleID:      m.SaleID,
			ProductName: raw.ProductName,
			Quantity:    raw.Quantity,
			UnitPrice:   price,
		}
	}

	return &offline.PendingSale{
		LocalID: m.LocalID,
		Sale: sale.Sale{
			BaseEntity: shared.BaseEntity{
				ID:        m.SaleID,
				CreatedAt: m.CapturedAt,
				UpdatedAt: m.CapturedAt,
			},
			BusinessID:    m.BusinessID,
			RecordedBy:    m.RecordedBy,
			Items:         items,
			PaymentMethod: m.PaymentMethod,
			Subtotal:      valueobject.NewMoney(m.Subtotal),
			VATAmount:     valueobject.NewMoney(m.VATAmount),
			Total:         valueobject.NewMoney(m.Total),
			VATRate:       m.VATRate,
			SubmissionKey: m.SubmissionKey,
		},
		Synchronized: m.Synchronized,
		CapturedAt:   m.CapturedAt,
		StoredAt:     m.StoredAt,
		SyncedAt:     m.SyncedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain PendingSale
func (m *PendingSaleModel) FromDomain(p *offline.PendingSale) error {
	rawItems := make([]pendingItem, len(p.Sale.Items))
	for i, item := range p.Sale.Items {
		rawItems[i] = pendingItem{
			ID:          item.ID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.Amount().String(),
		}
	}
	itemsJSON, err := json.Marshal(rawItems)
	if err != nil {
		return err
	}

	m.LocalID = p.LocalID
	m.SaleID = p.Sale.ID
	m.BusinessID = p.Sale.BusinessID
	m.RecordedBy = p.Sale.RecordedBy
	m.ItemsJSON = string(itemsJSON)
	m.PaymentMethod = p.Sale.PaymentMethod
	m.Subtotal = p.Sale.Subtotal.Amount()
	m.VATAmount = p.Sale.VATAmount.Amount()
	m.Total = p.Sale.Total.Amount()
	m.VATRate = p.Sale.VATRate
	m.SubmissionKey = p.Sale.SubmissionKey
	m.Synchronized = p.Synchronized
	m.CapturedAt = p.CapturedAt
	m.StoredAt = p.StoredAt
	m.SyncedAt = p.SyncedAt
	return nil
}
