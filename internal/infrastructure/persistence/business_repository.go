package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/saleledger/backend/internal/domain/business"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/infrastructure/persistence/models"
)

// GormBusinessRepository implements the business directory using GORM
type GormBusinessRepository struct {
	db *gorm.DB
}

// NewGormBusinessRepository creates a new GormBusinessRepository
func NewGormBusinessRepository(db *gorm.DB) *GormBusinessRepository {
	return &GormBusinessRepository{db: db}
}

// FindByID loads a business
func (r *GormBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	var model models.BusinessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// VATRate returns the current rate for a business. Deactivated
// businesses have no rate to offer, so captures against them fail.
func (r *GormBusinessRepository) VATRate(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, error) {
	b, err := r.FindByID(ctx, businessID)
	if err != nil {
		return decimal.Zero, err
	}
	if !b.Active {
		return decimal.Zero, business.ErrInactive
	}
	return b.VATRate, nil
}

// Save persists a new or updated business
func (r *GormBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	var model models.BusinessModel
	model.FromDomain(b)

	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindAll lists all businesses
func (r *GormBusinessRepository) FindAll(ctx context.Context) ([]business.Business, error) {
	var businessModels []models.BusinessModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&businessModels).Error; err != nil {
		return nil, err
	}

	businesses := make([]business.Business, len(businessModels))
	for i := range businessModels {
		businesses[i] = *businessModels[i].ToDomain()
	}
	return businesses, nil
}
