package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBudgetLineRepository implements budget.Repository using GORM
type GormBudgetLineRepository struct {
	db *gorm.DB
}

// NewGormBudgetLineRepository creates a new GormBudgetLineRepository
func NewGormBudgetLineRepository(db *gorm.DB) *GormBudgetLineRepository {
	return &GormBudgetLineRepository{db: db}
}

// Save creates or updates a budget line
func (r *GormBudgetLineRepository) Save(ctx context.Context, line *budget.BudgetLine) error {
	model := models.BudgetLineModelFromDomain(line)
	return r.db.WithContext(ctx).Save(model).Error
}

// CreateBatch inserts all lines in one transaction. A failure on any
// row rolls back every row of the batch.
func (r *GormBudgetLineRepository) CreateBatch(ctx context.Context, lines []*budget.BudgetLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := make([]*models.BudgetLineModel, len(lines))
	for i, line := range lines {
		batch[i] = models.BudgetLineModelFromDomain(line)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&batch).Error
	})
}

// FindByIDForOwner finds a budget line by ID for an owner
func (r *GormBudgetLineRepository) FindByIDForOwner(ctx context.Context, ownerID, id uuid.UUID) (*budget.BudgetLine, error) {
	var model models.BudgetLineModel
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

// FindByVersionForOwner lists the lines of one ledger version.
// A non-positive page size disables pagination.
func (r *GormBudgetLineRepository) FindByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int, filter shared.Filter) ([]*budget.BudgetLine, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BudgetLineModel{}).
		Where("owner_id = ? AND version = ?", ownerID, version)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("(account_code LIKE ? OR account_name LIKE ? OR description LIKE ?)", searchPattern, searchPattern, searchPattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, BudgetLineSortFields, "account_code")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" && filter.OrderDir == "" {
		sortOrder = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var lineModels []models.BudgetLineModel
	if err := query.Find(&lineModels).Error; err != nil {
		return nil, 0, err
	}

	lines := make([]*budget.BudgetLine, len(lineModels))
	for i := range lineModels {
		lines[i] = lineModels[i].ToDomain()
	}
	return lines, total, nil
}

// ListVersionsForOwner returns the distinct versions present for an
// owner, oldest first, with per-version line counts and stamps
func (r *GormBudgetLineRepository) ListVersionsForOwner(ctx context.Context, ownerID uuid.UUID) ([]budget.VersionInfo, error) {
	var rows []struct {
		Version   int
		LineCount int
		StampedAt string
	}
	if err := r.db.WithContext(ctx).Model(&models.BudgetLineModel{}).
		Select("version, COUNT(*) as line_count, MAX(versioned_at) as stamped_at").
		Where("owner_id = ?", ownerID).
		Group("version").
		Order("version ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	infos := make([]budget.VersionInfo, len(rows))
	for i, row := range rows {
		infos[i] = budget.VersionInfo{
			Version:   row.Version,
			LineCount: row.LineCount,
		}
		if stamp, err := parseDBTime(row.StampedAt); err == nil {
			infos[i].StampedAt = stamp
		}
	}
	return infos, nil
}

// parseDBTime parses an aggregated timestamp column. Drivers disagree
// on the text form MAX() comes back in, so a few layouts are tried.
func parseDBTime(value string) (time.Time, error) {
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// DeleteForOwner removes a budget line
func (r *GormBudgetLineRepository) DeleteForOwner(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetLineModel{}, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByVersionForOwner removes every line of one version and
// reports how many rows went away
func (r *GormBudgetLineRepository) DeleteByVersionForOwner(ctx context.Context, ownerID uuid.UUID, version int) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.BudgetLineModel{}, "owner_id = ? AND version = ?", ownerID, version)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
