package disbursement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/disbursement"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
)

// Service provides application-level disbursement operations
type Service struct {
	repo       disbursement.Repository
	budgetRepo budget.Repository
}

// NewService creates a new disbursement Service
func NewService(repo disbursement.Repository, budgetRepo budget.Repository) *Service {
	return &Service{repo: repo, budgetRepo: budgetRepo}
}

// Response represents a disbursement in API responses
type Response struct {
	ID            uuid.UUID        `json:"id"`
	BudgetLineID  uuid.UUID        `json:"budget_line_id"`
	PlannedAmount decimal.Decimal  `json:"planned_amount"`
	ActualAmount  *decimal.Decimal `json:"actual_amount,omitempty"`
	Method        string           `json:"method"`
	MethodName    string           `json:"method_name"`
	Status        string           `json:"status"`
	StatusName    string           `json:"status_name"`
	SPPDate       *time.Time       `json:"spp_date,omitempty"`
	SP2DDate      *time.Time       `json:"sp2d_date,omitempty"`
	EffectiveDate *time.Time       `json:"effective_date,omitempty"`
	Description   string           `json:"description,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// CreateRequest represents a request to file a disbursement
type CreateRequest struct {
	BudgetLineID  uuid.UUID       `json:"budget_line_id" binding:"required"`
	PlannedAmount decimal.Decimal `json:"planned_amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	SPPDate       time.Time       `json:"spp_date" binding:"required"`
	Description   string          `json:"description"`
}

// UpdateRequest represents a request to revise a disbursement's plan
type UpdateRequest struct {
	PlannedAmount decimal.Decimal `json:"planned_amount" binding:"required"`
	Method        string          `json:"method" binding:"required"`
	Description   string          `json:"description"`
}

// RecordSPPRequest represents a request to correct the SPP date
type RecordSPPRequest struct {
	SPPDate time.Time `json:"spp_date" binding:"required"`
}

// RecordSP2DRequest represents a request to record an SP2D issuance
type RecordSP2DRequest struct {
	SP2DDate     time.Time        `json:"sp2d_date" binding:"required"`
	ActualAmount *decimal.Decimal `json:"actual_amount"`
}

// ListFilter defines filtering options for disbursement list queries
type ListFilter struct {
	Year         *int       `form:"year"`
	BudgetLineID *uuid.UUID `form:"-"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir"`
}

// Create files a new disbursement against an existing budget line
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateRequest) (*Response, error) {
	line, err := s.budgetRepo.FindByIDForOwner(ctx, ownerID, req.BudgetLineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, disbursement.ErrReferenceNotFound
	}

	d, err := disbursement.NewDisbursement(
		ownerID,
		req.BudgetLineID,
		valueobject.NewMoneyIDR(req.PlannedAmount),
		disbursement.Method(req.Method),
		req.SPPDate,
	)
	if err != nil {
		return nil, err
	}
	d.Description = req.Description

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}

	return toResponse(d), nil
}

// GetByID gets a disbursement by ID
func (s *Service) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Response, error) {
	d, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Disbursement not found")
	}
	return toResponse(d), nil
}

// List lists disbursements with optional year and budget line filters
func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Response, int64, error) {
	disbs, total, err := s.repo.FindAllForOwner(ctx, ownerID, filter.Year, filter.BudgetLineID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, err
	}

	responses := make([]Response, 0, len(disbs))
	for _, d := range disbs {
		responses = append(responses, *toResponse(d))
	}
	return responses, total, nil
}

// Update revises the planned amount, method, and description of a
// disbursement
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateRequest) (*Response, error) {
	d, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Disbursement not found")
	}

	if err := d.UpdateDetails(valueobject.NewMoneyIDR(req.PlannedAmount), disbursement.Method(req.Method), req.Description); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

// RecordSPP corrects the SPP date of a pending disbursement
func (s *Service) RecordSPP(ctx context.Context, ownerID, id uuid.UUID, req RecordSPPRequest) (*Response, error) {
	d, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Disbursement not found")
	}

	if err := d.RecordSPP(req.SPPDate); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

// RecordSP2D records the treasury releasing funds for a disbursement
func (s *Service) RecordSP2D(ctx context.Context, ownerID, id uuid.UUID, req RecordSP2DRequest) (*Response, error) {
	d, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Disbursement not found")
	}

	var actual *valueobject.Money
	if req.ActualAmount != nil {
		m := valueobject.NewMoneyIDR(*req.ActualAmount)
		actual = &m
	}

	if err := d.RecordSP2D(req.SP2DDate, actual); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return toResponse(d), nil
}

// Delete removes a disbursement
func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	d, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if d == nil {
		return shared.NewDomainError("NOT_FOUND", "Disbursement not found")
	}
	return s.repo.DeleteForOwner(ctx, ownerID, id)
}

func toResponse(d *disbursement.Disbursement) *Response {
	return &Response{
		ID:            d.ID,
		BudgetLineID:  d.BudgetLineID,
		PlannedAmount: d.PlannedAmount,
		ActualAmount:  d.ActualAmount,
		Method:        d.Method.String(),
		MethodName:    d.Method.DisplayName(),
		Status:        d.Status.String(),
		StatusName:    d.Status.DisplayName(),
		SPPDate:       d.SPPDate,
		SP2DDate:      d.SP2DDate,
		EffectiveDate: d.EffectiveDate(),
		Description:   d.Description,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
