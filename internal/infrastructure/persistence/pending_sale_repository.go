package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saleledger/backend/internal/domain/offline"
	"github.com/saleledger/backend/internal/domain/shared"
	"github.com/saleledger/backend/internal/infrastructure/persistence/models"
)

// GormPendingSaleRepository implements the local durable queue over the
// sqlite file. Each operation is one transaction, so a crash cannot leave
// a partially written record observable. Storage failures are wrapped as
// shared.ErrStorageUnavailable so the capture path can surface them
// instead of silently dropping the sale.
type GormPendingSaleRepository struct {
	db *gorm.DB
}

// NewGormPendingSaleRepository creates a new GormPendingSaleRepository
func NewGormPendingSaleRepository(db *gorm.DB) *GormPendingSaleRepository {
	return &GormPendingSaleRepository{db: db}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %s", shared.ErrStorageUnavailable, err.Error())
}

// Append persists a new pending record and returns its local ID
func (r *GormPendingSaleRepository) Append(ctx context.Context, record *offline.PendingSale) (uuid.UUID, error) {
	var model models.PendingSaleModel
	if err := model.FromDomain(record); err != nil {
		return uuid.Nil, err
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return uuid.Nil, storageErr(err)
	}
	return model.LocalID, nil
}

// ListUnsynchronized returns all records with Synchronized=false, filtered
// by business when businessID is not uuid.Nil, ordered by storage time
func (r *GormPendingSaleRepository) ListUnsynchronized(ctx context.Context, businessID uuid.UUID) ([]offline.PendingSale, error) {
	query := r.db.WithContext(ctx).
		Where("synchronized = ?", false).
		Order("stored_at ASC")
	if businessID != uuid.Nil {
		query = query.Where("business_id = ?", businessID)
	}

	var pendingModels []models.PendingSaleModel
	if err := query.Find(&pendingModels).Error; err != nil {
		return nil, storageErr(err)
	}

	records := make([]offline.PendingSale, 0, len(pendingModels))
	for i := range pendingModels {
		record, err := pendingModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// MarkSynchronized flips a record to synchronized. Idempotent: marking an
// already-synchronized or unknown record matches zero rows and is a no-op.
func (r *GormPendingSaleRepository) MarkSynchronized(ctx context.Context, localID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("local_id = ? AND synchronized = ?", localID, false).
		Updates(map[string]any{
			"synchronized": true,
			"synced_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// PurgeSynchronized removes every synchronized record and returns how many
// were removed
func (r *GormPendingSaleRepository) PurgeSynchronized(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("synchronized = ?", true).
		Delete(&models.PendingSaleModel{})
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}

// CountUnsynchronized returns the number of records still waiting for
// delivery, optionally filtered by business
func (r *GormPendingSaleRepository) CountUnsynchronized(ctx context.Context, businessID uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PendingSaleModel{}).
		Where("synchronized = ?", false)
	if businessID != uuid.Nil {
		query = query.Where("business_id = ?", businessID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, storageErr(err)
	}
	return count, nil
}
