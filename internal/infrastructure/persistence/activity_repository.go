package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/activity"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActivityRepository implements activity.Repository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Save creates or updates an activity
func (r *GormActivityRepository) Save(ctx context.Context, a *activity.Activity) error {
	model := models.ActivityModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByIDForOwner finds an activity by ID for an owner
func (r *GormActivityRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*activity.Activity, error) {
	var model models.ActivityModel
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

// FindAllForOwner lists activities for an owner, optionally restricted
// to a year by start time or to a single budget line
func (r *GormActivityRepository) FindAllForOwner(ctx context.Context, ownerID uuid.UUID, year *int, budgetLineID *uuid.UUID, filter shared.Filter) ([]*activity.Activity, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ActivityModel{}).
		Where("owner_id = ?", ownerID)

	if budgetLineID != nil {
		query = query.Where("budget_line_id = ?", *budgetLineID)
	}
	if year != nil {
		start := fmt.Sprintf("%04d-01-01", *year)
		end := fmt.Sprintf("%04d-01-01", *year+1)
		query = query.Where("starts_at >= ? AND starts_at < ?", start, end)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(name LIKE ? OR venue LIKE ? OR organizer LIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, ActivitySortFields, "starts_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var activityModels []models.ActivityModel
	if err := query.Find(&activityModels).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]*activity.Activity, len(activityModels))
	for i := range activityModels {
		activities[i] = activityModels[i].ToDomain()
	}
	return activities, total, nil
}

// DeleteForOwner removes an activity
func (r *GormActivityRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ActivityModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
