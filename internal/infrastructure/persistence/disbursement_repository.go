package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/disbursement"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDisbursementRepository implements disbursement.Repository using GORM
type GormDisbursementRepository struct {
	db *gorm.DB
}

// NewGormDisbursementRepository creates a new GormDisbursementRepository
func NewGormDisbursementRepository(db *gorm.DB) *GormDisbursementRepository {
	return &GormDisbursementRepository{db: db}
}

// Save creates or updates a disbursement
func (r *GormDisbursementRepository) Save(ctx context.Context, d *disbursement.Disbursement) error {
	model := models.DisbursementModelFromDomain(d)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForOwner finds a disbursement by ID for an owner
func (r *GormDisbursementRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*disbursement.Disbursement, error) {
	var model models.DisbursementModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForOwner lists disbursements for an owner. The year filter
// matches the effective date: the SP2D date once issued, the SPP date
// before.
func (r *GormDisbursementRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, year *int, budgetLineID *uuid.UUID, filter shared.Filter) ([]*disbursement.Disbursement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DisbursementModel{}).
		Where("owner_id = ?", ownerID)

	if year != nil {
		start := fmt.Sprintf("%04d-01-01", *year)
		end := fmt.Sprintf("%04d-01-01", *year+1)
		query = query.Where("COALESCE(sp2d_date, spp_date) >= ? AND COALESCE(sp2d_date, spp_date) < ?", start, end)
	}
	if budgetLineID != nil {
		query = query.Where("budget_line_id = ?", *budgetLineID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, DisbursementSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var disbModels []models.DisbursementModel
	if err := query.Find(&disbModels).Error; err != nil {
		return nil, 0, err
	}

	disbs := make([]*disbursement.Disbursement, len(disbModels))
	for i := range disbModels {
		disbs[i] = disbModels[i].ToDomain()
	}
	return disbs, total, nil
}

// DeleteForOwner removes a disbursement
func (r *GormDisbursementRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DisbursementModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
