package models

import (
	"github.com/shopspring/decimal"

	"github.com/saleledger/backend/internal/domain/business"
)

// BusinessModel is the persistence model for business directory entries
type BusinessModel struct {
	BaseModel
	Name    string          `gorm:"type:varchar(200);not null;uniqueIndex"`
	VATRate decimal.Decimal `gorm:"type:decimal(7,6);not null"`
	Active  bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (BusinessModel) TableName() string {
	return "businesses"
}

// ToDomain converts the persistence model to a domain Business
func (m *BusinessModel) ToDomain() *business.Business {
	return &business.Business{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		VATRate:    m.VATRate,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Business
func (m *BusinessModel) FromDomain(b *business.Business) {
	m.FromDomainBaseEntity(b.BaseEntity)
	m.Name = b.Name
	m.VATRate = b.VATRate
	m.Active = b.Active
}
