package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saleledger/backend/internal/domain/sale"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/infrastructure/persistence/models"
)

// GormSaleRepository implements the authoritative sale store using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Save persists a committed sale with its line items in one transaction.
// The unique index on submission_key makes a resubmitted capture surface
// as shared.ErrAlreadyExists instead of a second ledger row.
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	var model models.SaleModel
	model.FromDomain(s)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID loads a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBusinessAndDateRange lists committed sales for a business within
// [from, to], ordered by creation time
func (r *GormSaleRepository) FindByBusinessAndDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]sale.Sale, error) {
	var saleModels []models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ? AND created_at >= ? AND created_at <= ?", businessID, from, to).
		Order("created_at ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}

	sales := make([]sale.Sale, len(saleModels))
	for i := range saleModels {
		sales[i] = *saleModels[i].ToDomain()
	}
	return sales, nil
}

// ExistsBySubmissionKey reports whether a sale with the given submission
// key has already been committed
func (r *GormSaleRepository) ExistsBySubmissionKey(ctx context.Context, key uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Where("submission_key = ?", key).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
