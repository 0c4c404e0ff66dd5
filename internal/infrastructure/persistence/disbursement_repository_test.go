package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/disbursement"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupDisbursementTestDB creates an in-memory SQLite database for testing
func setupDisbursementTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`
		CREATE TABLE disbursements (
			id TEXT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			budget_line_id TEXT NOT NULL,
			planned_amount NUMERIC NOT NULL,
			actual_amount NUMERIC,
			method TEXT NOT NULL,
			status TEXT NOT NULL,
			spp_date DATETIME,
			sp2d_date DATETIME,
			description TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`).Error
	require.NoError(t, err)

	return db
}

func newTestDisbursement(t *testing.T, ownerID, lineID uuid.UUID, planned float64, sppDate time.Time) *disbursement.Disbursement {
	t.Helper()
	d, err := disbursement.NewDisbursement(ownerID, lineID, valueobject.NewMoneyIDRFromFloat(planned), disbursement.MethodDirectPayment, sppDate)
	require.NoError(t, err)
	return d
}

func TestGormDisbursementRepository_SaveAndFind(t *testing.T) {
	db := setupDisbursementTestDB(t)
	repo := NewGormDisbursementRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()
	lineID := uuid.New()

	d := newTestDisbursement(t, ownerID, lineID, 300000, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, d))

	retrieved, err := repo.FindByIDForOwner(ctx, ownerID, d.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, lineID, retrieved.BudgetLineID)
	assert.Equal(t, disbursement.StatusSPPSubmitted, retrieved.Status)
	assert.True(t, retrieved.PlannedAmount.Equal(decimal.NewFromInt(300000)))
	assert.Nil(t, retrieved.ActualAmount)

	// Finalize and save again
	actual := valueobject.NewMoneyIDRFromFloat(275000)
	require.NoError(t, retrieved.RecordSP2D(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), &actual))
	require.NoError(t, repo.Save(ctx, retrieved))

	final, err := repo.FindByIDForOwner(ctx, ownerID, d.ID)
	require.NoError(t, err)
	require.NotNil(t, final)
	assert.Equal(t, disbursement.StatusSP2DIssued, final.Status)
	require.NotNil(t, final.ActualAmount)
	assert.True(t, final.ActualAmount.Equal(decimal.NewFromInt(275000)))
}

func TestGormDisbursementRepository_YearFilterUsesEffectiveDate(t *testing.T) {
	db := setupDisbursementTestDB(t)
	repo := NewGormDisbursementRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()
	lineID := uuid.New()

	// SPP filed in 2024, SP2D issued in 2025: counts under 2025
	crossYear := newTestDisbursement(t, ownerID, lineID, 100000, time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, crossYear.RecordSP2D(time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), nil))
	require.NoError(t, repo.Save(ctx, crossYear))

	// SPP filed in 2024, still pending: counts under 2024
	pending2024 := newTestDisbursement(t, ownerID, lineID, 200000, time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, pending2024))

	year := 2025
	disbs, total, err := repo.FindAllForOwner(ctx, ownerID, &year, nil, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, disbs, 1)
	assert.Equal(t, crossYear.ID, disbs[0].ID)

	year = 2024
	disbs, total, err = repo.FindAllForOwner(ctx, ownerID, &year, nil, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, disbs, 1)
	assert.Equal(t, pending2024.ID, disbs[0].ID)
}

func TestGormDisbursementRepository_BudgetLineFilter(t *testing.T) {
	db := setupDisbursementTestDB(t)
	repo := NewGormDisbursementRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()
	lineA := uuid.New()
	lineB := uuid.New()
	spp := time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, newTestDisbursement(t, ownerID, lineA, 100000, spp)))
	require.NoError(t, repo.Save(ctx, newTestDisbursement(t, ownerID, lineA, 150000, spp)))
	require.NoError(t, repo.Save(ctx, newTestDisbursement(t, ownerID, lineB, 200000, spp)))

	disbs, total, err := repo.FindAllForOwner(ctx, ownerID, nil, &lineA, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, disbs, 2)

	disbs, total, err = repo.FindAllForOwner(ctx, ownerID, nil, &lineB, shared.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, disbs, 1)
	assert.Equal(t, lineB, disbs[0].BudgetLineID)
}

func TestGormDisbursementRepository_Delete(t *testing.T) {
	db := setupDisbursementTestDB(t)
	repo := NewGormDisbursementRepository(db)
	ctx := context.Background()
	ownerID := uuid.New()

	d := newTestDisbursement(t, ownerID, uuid.New(), 100000, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Save(ctx, d))

	require.NoError(t, repo.DeleteForOwner(ctx, ownerID, d.ID))
	assert.Error(t, repo.DeleteForOwner(ctx, ownerID, d.ID), "second delete reports not found")
}
