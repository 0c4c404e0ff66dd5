package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	disbapp "github.com/simpok/backend/internal/application/disbursement"
)

// DisbursementHandler handles disbursement API endpoints
type DisbursementHandler struct {
	BaseHandler
	service *disbapp.Service
}

// NewDisbursementHandler creates a new DisbursementHandler
func NewDisbursementHandler(service *disbapp.Service) *DisbursementHandler {
	return &DisbursementHandler{service: service}
}

// Create files a new disbursement against a budget line. The
// disbursement starts in the SPP stage.
func (h *DisbursementHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var req disbapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	disbursement, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, disbursement)
}

// GetByID retrieves a disbursement by ID
func (h *DisbursementHandler) GetByID(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	disbursement, err := h.service.GetByID(c.Request.Context(), ownerID, disbursementID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, disbursement)
}

// List lists disbursements, optionally filtered by year or budget line
func (h *DisbursementHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var filter disbapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if raw := c.Query("budget_line_id"); raw != "" {
		lineID, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid budget line ID format")
			return
		}
		filter.BudgetLineID = &lineID
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	disbursements, total, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, disbursements, total, filter.Page, filter.PageSize)
}

// Update revises the planned amount, method, and description of a
// disbursement
func (h *DisbursementHandler) Update(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	var req disbapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	disbursement, err := h.service.Update(c.Request.Context(), ownerID, disbursementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, disbursement)
}

// RecordSPP corrects the SPP submission date of a pending disbursement
func (h *DisbursementHandler) RecordSPP(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	var req disbapp.RecordSPPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	disbursement, err := h.service.RecordSPP(c.Request.Context(), ownerID, disbursementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, disbursement)
}

// RecordSP2D records the SP2D issuance, finalizing the disbursement
func (h *DisbursementHandler) RecordSP2D(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	var req disbapp.RecordSP2DRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	disbursement, err := h.service.RecordSP2D(c.Request.Context(), ownerID, disbursementID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, disbursement)
}

// Delete removes a disbursement
func (h *DisbursementHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	disbursementID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid disbursement ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, disbursementID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
