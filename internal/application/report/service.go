package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/disbursement"
	"github.com/simpok/backend/internal/domain/reconciliation"
	"github.com/simpok/backend/internal/domain/shared"
)

var oneHundred = decimal.NewFromInt(100)

// Service assembles realization reports by joining the current budget
// version with the disbursements recorded against its lines.
type Service struct {
	budgetRepo budget.Repository
	disbRepo   disbursement.Repository
	reconciler *reconciliation.Service
}

// NewService creates a new report Service
func NewService(budgetRepo budget.Repository, disbRepo disbursement.Repository, reconciler *reconciliation.Service) *Service {
	return &Service{budgetRepo: budgetRepo, disbRepo: disbRepo, reconciler: reconciler}
}

// RealizationRow is the realization picture of one budget line
type RealizationRow struct {
	BudgetLineID      uuid.UUID       `json:"budget_line_id"`
	AccountCode       string          `json:"account_code"`
	AccountName       string          `json:"account_name"`
	Description       string          `json:"description"`
	PlannedTotal      decimal.Decimal `json:"planned_total"`
	DisbursedTotal    decimal.Decimal `json:"disbursed_total"`
	Percentage        decimal.Decimal `json:"percentage"`
	DisbursementCount int             `json:"disbursement_count"`
}

// RealizationReport is the per-line realization of one ledger version
type RealizationReport struct {
	Version     int              `json:"version"`
	Rows        []RealizationRow `json:"rows"`
	OrphanCount int              `json:"orphan_count"`
	OrphanTotal decimal.Decimal  `json:"orphan_total"`
}

// Summary is the headline realization figures of one fiscal year
type Summary struct {
	Version           int             `json:"version"`
	FiscalYear        *int            `json:"fiscal_year,omitempty"`
	BudgetTotal       decimal.Decimal `json:"budget_total"`
	DisbursedTotal    decimal.Decimal `json:"disbursed_total"`
	Percentage        decimal.Decimal `json:"percentage"`
	DisplayPercentage decimal.Decimal `json:"display_percentage"`
	PendingCount      int             `json:"pending_count"`
	PendingTotal      decimal.Decimal `json:"pending_total"`
	FinalizedCount    int             `json:"finalized_count"`
	FinalizedTotal    decimal.Decimal `json:"finalized_total"`
}

// MonthlyReport is the disbursed-per-month series of one year
type MonthlyReport struct {
	Year   int            `json:"year"`
	Months []MonthlyPoint `json:"months"`
}

// MonthlyPoint is the disbursed total of one calendar month
type MonthlyPoint struct {
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func (s *Service) currentVersionLines(ctx context.Context, ownerID uuid.UUID) ([]*budget.BudgetLine, int, error) {
	infos, err := s.budgetRepo.ListVersionsForOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	versions := make([]int, 0, len(infos))
	for _, info := range infos {
		versions = append(versions, info.Version)
	}
	current := budget.ResolveCurrentVersion(versions)

	lines, _, err := s.budgetRepo.FindByVersionForOwner(ctx, ownerID, current, shared.Filter{})
	if err != nil {
		return nil, 0, err
	}
	return lines, current, nil
}

// Realization builds the per-line realization report for the current
// version. Disbursements pointing at lines outside the current version
// (typically rows of older versions) are not silently dropped: their
// count and total are surfaced alongside the rows.
func (s *Service) Realization(ctx context.Context, ownerID uuid.UUID, year *int) (*RealizationReport, error) {
	lines, current, err := s.currentVersionLines(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	disbs, _, err := s.disbRepo.FindAllForOwner(ctx, ownerID, year, nil, shared.Filter{})
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		known[line.ID] = struct{}{}
	}

	matched := make([]*disbursement.Disbursement, 0, len(disbs))
	orphanCount := 0
	orphanTotal := decimal.Zero
	for _, d := range disbs {
		if _, ok := known[d.BudgetLineID]; ok {
			matched = append(matched, d)
		} else {
			orphanCount++
			orphanTotal = orphanTotal.Add(d.ContributingAmount())
		}
	}

	realized := s.reconciler.RealizeLines(lines, matched)
	rows := make([]RealizationRow, 0, len(realized))
	for _, r := range realized {
		rows = append(rows, RealizationRow{
			BudgetLineID:      r.Line.ID,
			AccountCode:       r.Line.AccountCode,
			AccountName:       r.Line.AccountName,
			Description:       r.Line.Description,
			PlannedTotal:      r.Line.TotalAmount,
			DisbursedTotal:    r.DisbursedTotal,
			Percentage:        r.Percentage,
			DisbursementCount: r.DisbursementCount,
		})
	}

	return &RealizationReport{
		Version:     current,
		Rows:        rows,
		OrphanCount: orphanCount,
		OrphanTotal: orphanTotal,
	}, nil
}

// GetSummary builds the headline figures: catalog total, disbursed
// total, realization percentage and the status breakdown. The raw
// percentage is kept as computed; DisplayPercentage is capped at 100
// for dashboards.
func (s *Service) GetSummary(ctx context.Context, ownerID uuid.UUID, year *int) (*Summary, error) {
	lines, current, err := s.currentVersionLines(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	disbs, _, err := s.disbRepo.FindAllForOwner(ctx, ownerID, year, nil, shared.Filter{})
	if err != nil {
		return nil, err
	}

	budgetTotal := decimal.Zero
	for _, line := range lines {
		if year != nil && line.FiscalYear != *year {
			continue
		}
		budgetTotal = budgetTotal.Add(line.TotalAmount)
	}

	disbursed := s.reconciler.DisbursedTotal(disbs)
	pct := s.reconciler.RealizationPercentage(budgetTotal, disbs)
	display := pct
	if display.GreaterThan(oneHundred) {
		display = oneHundred
	}

	status := s.reconciler.AggregateByStatus(disbs, year)

	return &Summary{
		Version:           current,
		FiscalYear:        year,
		BudgetTotal:       budgetTotal,
		DisbursedTotal:    disbursed,
		Percentage:        pct,
		DisplayPercentage: display,
		PendingCount:      status.PendingCount,
		PendingTotal:      status.PendingTotal,
		FinalizedCount:    status.FinalizedCount,
		FinalizedTotal:    status.FinalizedTotal,
	}, nil
}

// GetMonthly builds the disbursed-per-month series of one year
func (s *Service) GetMonthly(ctx context.Context, ownerID uuid.UUID, year int) (*MonthlyReport, error) {
	if year == 0 {
		year = time.Now().Year()
	}

	disbs, _, err := s.disbRepo.FindAllForOwner(ctx, ownerID, &year, nil, shared.Filter{})
	if err != nil {
		return nil, err
	}

	series := s.reconciler.MonthlySeries(disbs, year)
	months := make([]MonthlyPoint, 0, len(series))
	for _, p := range series {
		months = append(months, MonthlyPoint{Month: p.Month, Total: p.Total, Count: p.Count})
	}

	return &MonthlyReport{Year: year, Months: months}, nil
}
