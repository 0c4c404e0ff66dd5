package reconciliation

import (
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/disbursement"
)

var hundred = decimal.NewFromInt(100)

// Service is a domain service that derives realization figures from
// budget lines and the disbursements recorded against them. Nothing is
// stored: every figure is recomputed from the inputs, so a correction
// to either side is reflected immediately.
type Service struct{}

// NewService creates a new reconciliation service
func NewService() *Service {
	return &Service{}
}

// LineRealization is the realization picture of one budget line
type LineRealization struct {
	Line              *budget.BudgetLine
	DisbursedTotal    decimal.Decimal
	Percentage        decimal.Decimal
	DisbursementCount int
}

// StatusSummary aggregates disbursements by processing stage
type StatusSummary struct {
	PendingCount   int
	PendingTotal   decimal.Decimal
	FinalizedCount int
	FinalizedTotal decimal.Decimal
}

// MonthlyPoint is the disbursed total of one calendar month
type MonthlyPoint struct {
	Month int
	Total decimal.Decimal
	Count int
}

// RealizationPercentage computes how much of a planned total has been
// disbursed, as a percentage. Each disbursement contributes its actual
// amount when known, its planned amount otherwise. A zero planned total
// yields zero; over-disbursement is reported as is, above 100.
func (s *Service) RealizationPercentage(plannedTotal decimal.Decimal, disbs []*disbursement.Disbursement) decimal.Decimal {
	if plannedTotal.IsZero() {
		return decimal.Zero
	}
	disbursed := s.DisbursedTotal(disbs)
	return disbursed.Div(plannedTotal).Mul(hundred)
}

// DisbursedTotal sums the contributing amounts of the given disbursements
func (s *Service) DisbursedTotal(disbs []*disbursement.Disbursement) decimal.Decimal {
	total := decimal.Zero
	for _, d := range disbs {
		total = total.Add(d.ContributingAmount())
	}
	return total
}

// RealizeLines joins budget lines with their disbursements and computes
// per-line realization. Every line appears in the result, including
// lines with no disbursements at all.
func (s *Service) RealizeLines(lines []*budget.BudgetLine, disbs []*disbursement.Disbursement) []LineRealization {
	byLine := make(map[string][]*disbursement.Disbursement, len(lines))
	for _, d := range disbs {
		key := d.BudgetLineID.String()
		byLine[key] = append(byLine[key], d)
	}

	result := make([]LineRealization, 0, len(lines))
	for _, line := range lines {
		lineDisbs := byLine[line.ID.String()]
		result = append(result, LineRealization{
			Line:              line,
			DisbursedTotal:    s.DisbursedTotal(lineDisbs),
			Percentage:        s.RealizationPercentage(line.TotalAmount, lineDisbs),
			DisbursementCount: len(lineDisbs),
		})
	}
	return result
}

// AggregateByStatus splits disbursements into pending (SPP submitted)
// and finalized (SP2D issued) buckets. When year is non-nil, only
// disbursements whose effective date falls in that year are counted.
func (s *Service) AggregateByStatus(disbs []*disbursement.Disbursement, year *int) StatusSummary {
	summary := StatusSummary{
		PendingTotal:   decimal.Zero,
		FinalizedTotal: decimal.Zero,
	}
	for _, d := range disbs {
		if year != nil {
			eff := d.EffectiveDate()
			if eff == nil || eff.Year() != *year {
				continue
			}
		}
		if d.IsFinalized() {
			summary.FinalizedCount++
			summary.FinalizedTotal = summary.FinalizedTotal.Add(d.ContributingAmount())
		} else {
			summary.PendingCount++
			summary.PendingTotal = summary.PendingTotal.Add(d.ContributingAmount())
		}
	}
	return summary
}

// MonthlySeries buckets a year's disbursements by the month of their
// effective date. All twelve months are present, zero-filled.
func (s *Service) MonthlySeries(disbs []*disbursement.Disbursement, year int) []MonthlyPoint {
	points := make([]MonthlyPoint, 12)
	for i := range points {
		points[i] = MonthlyPoint{Month: i + 1, Total: decimal.Zero}
	}
	for _, d := range disbs {
		eff := d.EffectiveDate()
		if eff == nil || eff.Year() != year {
			continue
		}
		idx := int(eff.Month()) - 1
		points[idx].Total = points[idx].Total.Add(d.ContributingAmount())
		points[idx].Count++
	}
	return points
}
