package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	activityapp "github.com/simpok/backend/internal/application/activity"
)

// ActivityHandler handles office activity API endpoints
type ActivityHandler struct {
	BaseHandler
	service *activityapp.Service
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(service *activityapp.Service) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// Create creates a new activity
func (h *ActivityHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var req activityapp.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.service.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, activity)
}

// GetByID retrieves an activity by ID
func (h *ActivityHandler) GetByID(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := h.service.GetByID(c.Request.Context(), ownerID, activityID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activity)
}

// List lists activities, optionally filtered by year or keyword
func (h *ActivityHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	var filter activityapp.ListFilter
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

	activities, total, err := h.service.List(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// Update updates an activity
func (h *ActivityHandler) Update(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	var req activityapp.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.service.Update(c.Request.Context(), ownerID, activityID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, activity)
}

// Delete removes an activity
func (h *ActivityHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.Unauthorized(c, "Owner ID is required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	if err := h.service.Delete(c.Request.Context(), ownerID, activityID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
