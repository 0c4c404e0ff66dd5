package budget

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simpok/backend/internal/domain/budget"
	"github.com/simpok/backend/internal/domain/shared"
	"github.com/simpok/backend/internal/domain/shared/valueobject"
)

// VersionCache caches the resolved current version per owner so list
// requests do not rescan the version column on every call.
type VersionCache interface {
	GetCurrentVersion(ctx context.Context, ownerID uuid.UUID) (int, bool)
	SetCurrentVersion(ctx context.Context, ownerID uuid.UUID, version int)
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// CatalogService provides application-level operations on the budget
// line catalog: CRUD within the current version plus version listing.
type CatalogService struct {
	repo  budget.Repository
	cache VersionCache
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo budget.Repository, cache VersionCache) *CatalogService {
	return &CatalogService{repo: repo, cache: cache}
}

// BudgetLineResponse represents a budget line in API responses
type BudgetLineResponse struct {
	ID          uuid.UUID        `json:"id"`
	AccountCode string           `json:"account_code"`
	AccountName string           `json:"account_name"`
	AccountType string           `json:"account_type"`
	TypeName    string           `json:"type_name"`
	ProgramID   *uuid.UUID       `json:"program_id,omitempty"`
	Description string           `json:"description"`
	Volume      string           `json:"volume,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	FiscalYear  int              `json:"fiscal_year"`
	Version     int              `json:"version"`
	VersionedAt time.Time        `json:"versioned_at"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// VersionResponse represents a ledger version in API responses
type VersionResponse struct {
	Version   int       `json:"version"`
	LineCount int       `json:"line_count"`
	StampedAt time.Time `json:"stamped_at"`
	IsCurrent bool      `json:"is_current"`
}

// CreateBudgetLineRequest represents a request to create a budget line
type CreateBudgetLineRequest struct {
	AccountCode string           `json:"account_code" binding:"required,max=20"`
	AccountName string           `json:"account_name" binding:"required,max=255"`
	AccountType string           `json:"account_type" binding:"required"`
	ProgramID   *uuid.UUID       `json:"program_id"`
	Description string           `json:"description" binding:"required"`
	Volume      string           `json:"volume"`
	Unit        string           `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal  `json:"total_amount" binding:"required"`
	FiscalYear  int              `json:"fiscal_year" binding:"required"`
}

// UpdateBudgetLineRequest represents a request to update a budget line
type UpdateBudgetLineRequest struct {
	AccountCode string           `json:"account_code" binding:"required,max=20"`
	AccountName string           `json:"account_name" binding:"required,max=255"`
	AccountType string           `json:"account_type" binding:"required"`
	ProgramID   *uuid.UUID       `json:"program_id"`
	Description string           `json:"description" binding:"required"`
	Volume      string           `json:"volume"`
	Unit        string           `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal  `json:"total_amount" binding:"required"`
	FiscalYear  int              `json:"fiscal_year" binding:"required"`
}

// ListFilter defines filtering options for budget line list queries
type ListFilter struct {
	Version  *int   `form:"version"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

func (s *CatalogService) invalidateVersion(ctx context.Context, ownerID uuid.UUID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, ownerID)
	}
}

// CurrentVersion resolves the current (highest) ledger version for the
// owner, consulting the cache first.
func (s *CatalogService) CurrentVersion(ctx context.Context, ownerID uuid.UUID) (int, error) {
	if s.cache != nil {
		if v, ok := s.cache.GetCurrentVersion(ctx, ownerID); ok {
			return v, nil
		}
	}
	infos, err := s.repo.ListVersionsForOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	versions := make([]int, 0, len(infos))
	for _, info := range infos {
		versions = append(versions, info.Version)
	}
	current := budget.ResolveCurrentVersion(versions)
	if s.cache != nil {
		s.cache.SetCurrentVersion(ctx, ownerID, current)
	}
	return current, nil
}

// CreateBudgetLine creates a budget line in the current version
func (s *CatalogService) CreateBudgetLine(ctx context.Context, ownerID uuid.UUID, req CreateBudgetLineRequest) (*BudgetLineResponse, error) {
	current, err := s.CurrentVersion(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	line, err := budget.NewBudgetLine(
		ownerID,
		req.AccountCode,
		req.AccountName,
		budget.AccountType(req.AccountType),
		req.Description,
		valueobject.NewMoneyIDR(req.TotalAmount),
		req.FiscalYear,
	)
	if err != nil {
		return nil, err
	}
	line.Version = current

	if req.Volume != "" {
		line.SetVolume(req.Volume)
	}
	if req.Unit != "" {
		line.SetUnit(req.Unit)
	}
	if req.UnitPrice != nil {
		line.SetUnitPrice(req.UnitPrice)
	}
	if req.ProgramID != nil {
		line.SetProgram(req.ProgramID)
	}

	if err := s.repo.Save(ctx, line); err != nil {
		return nil, err
	}
	s.invalidateVersion(ctx, ownerID)

	return toBudgetLineResponse(line), nil
}

// GetBudgetLineByID gets a budget line by ID
func (s *CatalogService) GetBudgetLineByID(ctx context.Context, ownerID, id uuid.UUID) (*BudgetLineResponse, error) {
	line, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Budget line not found")
	}
	return toBudgetLineResponse(line), nil
}

// ListBudgetLines lists the lines of one ledger version. A nil version
// in the filter means the current version.
func (s *CatalogService) ListBudgetLines(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]BudgetLineResponse, int64, int, error) {
	version := 0
	if filter.Version != nil {
		version = *filter.Version
	} else {
		current, err := s.CurrentVersion(ctx, ownerID)
		if err != nil {
			return nil, 0, 0, err
		}
		version = current
	}

	lines, total, err := s.repo.FindByVersionForOwner(ctx, ownerID, version, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, 0, 0, err
	}

	responses := make([]BudgetLineResponse, 0, len(lines))
	for _, line := range lines {
		responses = append(responses, *toBudgetLineResponse(line))
	}
	return responses, total, version, nil
}

// UpdateBudgetLine edits a budget line in place without touching its version
func (s *CatalogService) UpdateBudgetLine(ctx context.Context, ownerID, id uuid.UUID, req UpdateBudgetLineRequest) (*BudgetLineResponse, error) {
	line, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Budget line not found")
	}

	if err := line.Update(
		req.AccountCode,
		req.AccountName,
		budget.AccountType(req.AccountType),
		req.Description,
		valueobject.NewMoneyIDR(req.TotalAmount),
		req.FiscalYear,
	); err != nil {
		return nil, err
	}
	line.SetVolume(req.Volume)
	line.SetUnit(req.Unit)
	line.SetUnitPrice(req.UnitPrice)
	line.SetProgram(req.ProgramID)

	if err := s.repo.Save(ctx, line); err != nil {
		return nil, err
	}
	s.invalidateVersion(ctx, ownerID)

	return toBudgetLineResponse(line), nil
}

// DeleteBudgetLine removes a budget line. Removing the last line of
// the highest version changes what the ledger resolves to, so the
// cached version is always dropped.
func (s *CatalogService) DeleteBudgetLine(ctx context.Context, ownerID, id uuid.UUID) error {
	line, err := s.repo.FindByIDForOwner(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if line == nil {
		return shared.NewDomainError("NOT_FOUND", "Budget line not found")
	}
	if err := s.repo.DeleteForOwner(ctx, ownerID, id); err != nil {
		return err
	}
	s.invalidateVersion(ctx, ownerID)
	return nil
}

// ListVersions lists all ledger versions with the current one marked
func (s *CatalogService) ListVersions(ctx context.Context, ownerID uuid.UUID) ([]VersionResponse, error) {
	infos, err := s.repo.ListVersionsForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	versions := make([]int, 0, len(infos))
	for _, info := range infos {
		versions = append(versions, info.Version)
	}
	current := budget.ResolveCurrentVersion(versions)

	responses := make([]VersionResponse, 0, len(infos))
	for _, info := range infos {
		responses = append(responses, VersionResponse{
			Version:   info.Version,
			LineCount: info.LineCount,
			StampedAt: info.StampedAt,
			IsCurrent: info.Version == current,
		})
	}
	return responses, nil
}

func toBudgetLineResponse(line *budget.BudgetLine) *BudgetLineResponse {
	return &BudgetLineResponse{
		ID:          line.ID,
		AccountCode: line.AccountCode,
		AccountName: line.AccountName,
		AccountType: line.AccountType.String(),
		TypeName:    line.AccountType.DisplayName(),
		ProgramID:   line.ProgramID,
		Description: line.Description,
		Volume:      line.Volume,
		Unit:        line.Unit,
		UnitPrice:   line.UnitPrice,
		TotalAmount: line.TotalAmount,
		FiscalYear:  line.FiscalYear,
		Version:     line.Version,
		VersionedAt: line.VersionedAt,
		CreatedAt:   line.CreatedAt,
		UpdatedAt:   line.UpdatedAt,
	}
}
