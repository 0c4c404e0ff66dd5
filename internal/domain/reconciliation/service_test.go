package reconciliation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/disbursement"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedDisb(t *testing.T, lineID uuid.UUID, planned float64, sppDate time.Time) *disbursement.Disbursement {
	t.Helper()
	d, err := disbursement.NewDisbursement(uuid.New(), lineID, valueobject.NewMoneyIDRFromFloat(planned), disbursement.MethodDirectPayment, sppDate)
	require.NoError(t, err)
	return d
}

func finalizedDisb(t *testing.T, lineID uuid.UUID, planned, actual float64, sppDate, sp2dDate time.Time) *disbursement.Disbursement {
	t.Helper()
	d := plannedDisb(t, lineID, planned, sppDate)
	amt := valueobject.NewMoneyIDRFromFloat(actual)
	require.NoError(t, d.RecordSP2D(sp2dDate, &amt))
	return d
}

func TestRealizationPercentage(t *testing.T) {
	svc := NewService()
	lineID := uuid.New()
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("mixes planned and actual amounts", func(t *testing.T) {
		// 300,000 still pending plus 250,000 actually released against
		// a 1,000,000 line gives 55%.
		disbs := []*disbursement.Disbursement{
			plannedDisb(t, lineID, 300000, feb),
			finalizedDisb(t, lineID, 200000, 250000, feb, mar),
		}
		pct := svc.RealizationPercentage(decimal.NewFromInt(1000000), disbs)
		assert.True(t, pct.Equal(decimal.NewFromInt(55)), "got %s", pct)
	})

	t.Run("zero planned total yields zero", func(t *testing.T) {
		disbs := []*disbursement.Disbursement{plannedDisb(t, lineID, 300000, feb)}
		assert.True(t, svc.RealizationPercentage(decimal.Zero, disbs).IsZero())
	})

	t.Run("over-disbursement exceeds 100", func(t *testing.T) {
		disbs := []*disbursement.Disbursement{plannedDisb(t, lineID, 1200000, feb)}
		pct := svc.RealizationPercentage(decimal.NewFromInt(1000000), disbs)
		assert.True(t, pct.Equal(decimal.NewFromInt(120)), "got %s", pct)
	})

	t.Run("no disbursements yields zero", func(t *testing.T) {
		assert.True(t, svc.RealizationPercentage(decimal.NewFromInt(1000000), nil).IsZero())
	})
}

func TestRealizeLines(t *testing.T) {
	svc := NewService()
	ownerID := uuid.New()

	lineA, err := budget.NewBudgetLine(ownerID, "521211", "Belanja Bahan", budget.AccountTypeGoods, "ATK", valueobject.NewMoneyIDRFromFloat(1000000), 2025)
	require.NoError(t, err)
	lineB, err := budget.NewBudgetLine(ownerID, "524111", "Belanja Perjalanan", budget.AccountTypeGoods, "Perjadin", valueobject.NewMoneyIDRFromFloat(500000), 2025)
	require.NoError(t, err)

	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	disbs := []*disbursement.Disbursement{
		plannedDisb(t, lineA.ID, 400000, feb),
	}

	rows := svc.RealizeLines([]*budget.BudgetLine{lineA, lineB}, disbs)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].DisbursementCount)
	assert.True(t, rows[0].Percentage.Equal(decimal.NewFromInt(40)))

	assert.Equal(t, 0, rows[1].DisbursementCount, "untouched line still listed")
	assert.True(t, rows[1].Percentage.IsZero())
	assert.True(t, rows[1].DisbursedTotal.IsZero())
}

func TestAggregateByStatus(t *testing.T) {
	svc := NewService()
	lineID := uuid.New()
	feb25 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mar25 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	dec24 := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)

	disbs := []*disbursement.Disbursement{
		plannedDisb(t, lineID, 300000, feb25),
		finalizedDisb(t, lineID, 200000, 250000, feb25, mar25),
		finalizedDisb(t, lineID, 100000, 100000, dec24, dec24),
	}

	t.Run("unfiltered counts everything", func(t *testing.T) {
		sum := svc.AggregateByStatus(disbs, nil)
		assert.Equal(t, 1, sum.PendingCount)
		assert.Equal(t, 2, sum.FinalizedCount)
		assert.True(t, sum.PendingTotal.Equal(decimal.NewFromInt(300000)))
		assert.True(t, sum.FinalizedTotal.Equal(decimal.NewFromInt(350000)))
	})

	t.Run("year filter uses the effective date", func(t *testing.T) {
		year := 2025
		sum := svc.AggregateByStatus(disbs, &year)
		assert.Equal(t, 1, sum.PendingCount)
		assert.Equal(t, 1, sum.FinalizedCount)
		assert.True(t, sum.FinalizedTotal.Equal(decimal.NewFromInt(250000)), "2024 release excluded")
	})
}

func TestMonthlySeries(t *testing.T) {
	svc := NewService()
	lineID := uuid.New()
	feb := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	disbs := []*disbursement.Disbursement{
		plannedDisb(t, lineID, 100000, feb),
		plannedDisb(t, lineID, 150000, feb),
		finalizedDisb(t, lineID, 200000, 180000, feb, mar),
	}

	points := svc.MonthlySeries(disbs, 2025)
	require.Len(t, points, 12)

	assert.Equal(t, 2, points[1].Count)
	assert.True(t, points[1].Total.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, 1, points[2].Count, "finalized entry counts under its sp2d month")
	assert.True(t, points[2].Total.Equal(decimal.NewFromInt(180000)))
	assert.True(t, points[0].Total.IsZero())
}
