package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	budgetapp "github.com/simpok/backend/internal/application/budget"
)

// BudgetHandler handles budget ledger API endpoints
type BudgetHandler struct {
	BaseHandler
	catalogService  *budgetapp.CatalogService
	snapshotService *budgetapp.SnapshotService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(catalogService *budgetapp.CatalogService, snapshotService *budgetapp.SnapshotService) *BudgetHandler {
	return &BudgetHandler{
		catalogService:  catalogService,
		snapshotService: snapshotService,
	}
}

// CreateLine creates a budget line in the current ledger version
func (h *BudgetHandler) CreateLine(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var req budgetapp.CreateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.catalogService.CreateBudgetLine(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, line)
}

// GetLine retrieves a budget line by ID
func (h *BudgetHandler) GetLine(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget line ID format")
		return
	}

	line, err := h.catalogService.GetBudgetLineByID(c.Request.Context(), ownerID, lineID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// ListLines lists budget lines of the current version, or of an
// explicit version when the "version" query parameter is set
func (h *BudgetHandler) ListLines(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var filter budgetapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	lines, total, _, err := h.catalogService.ListBudgetLines(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, lines, total, filter.Page, filter.PageSize)
}

// UpdateLine edits a budget line in place. The line keeps its version;
// corrections never bump the ledger.
func (h *BudgetHandler) UpdateLine(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget line ID format")
		return
	}

	var req budgetapp.UpdateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	line, err := h.catalogService.UpdateBudgetLine(c.Request.Context(), ownerID, lineID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, line)
}

// DeleteLine removes a budget line
func (h *BudgetHandler) DeleteLine(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid budget line ID format")
		return
	}

	if err := h.catalogService.DeleteBudgetLine(c.Request.Context(), ownerID, lineID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListVersions lists every ledger version with the current one marked
func (h *BudgetHandler) ListVersions(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	versions, err := h.catalogService.ListVersions(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, versions)
}

// CreateSnapshot duplicates the whole current catalog into a new
// ledger version
func (h *BudgetHandler) CreateSnapshot(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	snapshot, err := h.snapshotService.CreateSnapshot(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, snapshot)
}

// ListVersionLines lists the lines frozen in a specific ledger version
func (h *BudgetHandler) ListVersionLines(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		h.BadRequest(c, "Invalid version number")
		return
	}

	var filter budgetapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter.Version = &version

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	lines, total, _, err := h.catalogService.ListBudgetLines(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, lines, total, filter.Page, filter.PageSize)
}
